package codingcontest

// Tags used for view filtering and styling.
const (
	FileSystem          = "FileSystem"
	Database            = "Database"
	AzureInfrastructure = "AzureInfrastructure"
)

// Icon tags. Their rules come from the embedded themes.
const (
	IconSpring                   = "Spring"
	IconAzure                    = "Azure"
	IconAzureKubernetesService   = "Azure Kubernetes Service"
	IconAzureDatabaseForMariaDB  = "Azure Database for MariaDB"
	IconAzureBlobStorage         = "Azure Blob Storage"
	IconAzureRedisCache          = "Azure Cache for Redis"
	IconAzureApplicationInsights = "Azure Application Insights"
	IconAzureContainerRegistry   = "Azure Container Registry"
	IconAzureKeyVault            = "Azure Key Vault"
	IconAzureDNS                 = "Azure DNS"
	IconAzurePublicIPAddress     = "Azure Public IP Address"
)
