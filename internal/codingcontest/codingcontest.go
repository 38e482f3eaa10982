// Package codingcontest describes the architecture of the Coding Contest
// Platform: two personas, one software system with its containers, the
// Azure deployment and the views rendered from them.
package codingcontest

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archscape/pkg/style"
	"github.com/matzehuels/archscape/pkg/workspace"
)

// WorkspaceName is the default workspace name.
const WorkspaceName = "Coding Contest"

// Providers returns the providers that make up the workspace, in
// declaration order.
func Providers() []workspace.Provider {
	personas := &Personas{}
	return []workspace.Provider{
		Landscape{},
		personas,
		NewPlatform(personas),
	}
}

// Build builds the workspace with the embedded themes followed by extra.
func Build(ctx context.Context, name, description string, logger *log.Logger, extra ...style.Theme) (*workspace.Workspace, error) {
	themes, err := Themes()
	if err != nil {
		return nil, err
	}
	themes = append(themes, extra...)
	if name == "" {
		name = WorkspaceName
	}
	return workspace.Build(ctx, workspace.Options{
		Name:        name,
		Description: description,
		Logger:      logger,
		Themes:      themes,
	}, Providers()...)
}
