package codingcontest

import (
	"fmt"

	"github.com/matzehuels/archscape/pkg/model"
	"github.com/matzehuels/archscape/pkg/view"
)

// Platform declares the Coding Contest Platform: its containers, how they
// talk to each other and to the personas, and how they are deployed on Azure.
type Platform struct {
	personas *Personas
	platform model.SystemRef
}

// NewPlatform returns the platform provider. personas must be populated
// before the platform, which [Providers] guarantees.
func NewPlatform(personas *Personas) *Platform {
	return &Platform{personas: personas}
}

func (p *Platform) Name() string { return "coding-contest" }

func (p *Platform) Populate(m *model.Model) error {
	var err error
	p.platform, err = m.AddSoftwareSystem("Coding Contest Platform", "")
	if err != nil {
		return err
	}
	d := &declarer{m: m}
	sys := p.platform

	registration := d.container(sys, "Registration", "maintains all users and contests, provides SSO", "",
		model.WithURL("https://register.codingcontest.org/"), model.WithTags(IconSpring))
	catCoder := d.container(sys, "CatCoder", "provides the possibility to solve coding challenges", "",
		model.WithURL("https://catcoder.codingcontest.org/"), model.WithTags(IconSpring))
	d.uses(registration, catCoder, "fetches contests", "REST")

	catCoderDB := d.container(sys, "CatCoder-DB", "", "MariaDB",
		model.WithTags(Database, IconAzureDatabaseForMariaDB, AzureInfrastructure))
	d.uses(catCoder, catCoderDB, "reads and updates contest data", "JDBC")

	registrationDB := d.container(sys, "Registration-DB", "", "MariaDB",
		model.WithTags(Database, IconAzureDatabaseForMariaDB, AzureInfrastructure))
	d.uses(registration, registrationDB, "reads and updates user data", "JDBC")

	storage := d.container(sys, "Azure Storage", "", "Azure Storage",
		model.WithTags(IconAzureBlobStorage, AzureInfrastructure))
	d.uses(catCoder, storage, "provides access links to game input", "")

	redis := d.container(sys, "Redis", "", "Redis")
	d.uses(registration, redis, "stores sessions", "")
	d.uses(catCoder, redis, "stores sessions", "")
	if d.err == nil {
		d.err = m.Tag(redis, IconAzureRedisCache, AzureInfrastructure)
	}

	insights := d.container(sys, "Application Insights", "", "",
		model.WithTags(IconAzureApplicationInsights, AzureInfrastructure))
	registry := d.container(sys, "Container Registry", "", "",
		model.WithTags(IconAzureContainerRegistry, AzureInfrastructure))

	vault := d.container(sys, "Azure Key Vault", "", "",
		model.WithTags(IconAzureKeyVault, AzureInfrastructure))
	d.uses(registration, vault, "reads secrets", "")
	d.uses(catCoder, vault, "reads secrets", "")

	ingress := d.container(sys, "NGINX Ingress", "Loadbalancer", "",
		model.WithTags(AzureInfrastructure))
	d.uses(ingress, registration, "forwards requests", "HTTP")
	d.uses(ingress, catCoder, "forwards requests", "HTTP")

	grafana := d.container(sys, "Grafana", "", "", model.WithTags(AzureInfrastructure))
	dns := d.container(sys, "DNS Zone", "", "", model.WithTags(IconAzureDNS, AzureInfrastructure))
	publicIP := d.container(sys, "Public IP", "", "", model.WithTags(IconAzurePublicIPAddress, AzureInfrastructure))

	user, admin := p.personas.User, p.personas.Admin
	d.uses(user, registration, "performs login", "")
	d.uses(user, catCoder, "solves coding challenges", "")
	d.uses(user, storage, "downloads contest input data", "HTTPS")
	d.uses(admin, registration, "creates public contests", "")
	d.uses(admin, catCoder, "maintains coding games", "")

	azure := d.node(model.DeploymentNodeRef{}, "Azure", "", model.WithTags(IconAzure))
	aks := d.node(azure, "AKS", "AKS", model.WithTags(IconAzureKubernetesService))
	d.place(aks, catCoder, model.WithTags(IconSpring))
	d.place(aks, registration, model.WithTags(IconSpring))
	d.place(aks, ingress)

	for _, c := range []model.ContainerRef{registry, storage, insights, vault, redis, grafana, dns, publicIP} {
		d.place(azure, c, model.InheritTags())
	}

	mariaDB := d.node(azure, "managedMariaDb", "MariaDB", model.WithTags(Database, IconAzureDatabaseForMariaDB))
	d.place(mariaDB, catCoderDB)
	d.place(mariaDB, registrationDB)

	return d.err
}

func (p *Platform) CreateViews(views *view.Set) error {
	ccp, err := views.Container(p.platform, "ccp", "Coding Contest Platform")
	if err != nil {
		return err
	}
	if err := build(ccp, includeInfluencer, includePeople); err != nil {
		return fmt.Errorf("view ccp: %w", err)
	}

	noAzure, err := views.Container(p.platform, "ccpNoAzure", "Coding Contest Platform without DB")
	if err != nil {
		return err
	}
	if err := build(noAzure, includeInfluencer, includePeople, excludeTag(AzureInfrastructure)); err != nil {
		return fmt.Errorf("view ccpNoAzure: %w", err)
	}

	deployment, err := views.Deployment(p.platform, model.DefaultEnvironment, "deployment", "")
	if err != nil {
		return err
	}
	if err := build(deployment, includeNodes); err != nil {
		return fmt.Errorf("view deployment: %w", err)
	}
	return nil
}
