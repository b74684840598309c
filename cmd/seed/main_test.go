package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"preschool/internal/auth"
	"preschool/internal/config"
	"preschool/internal/media"
	"preschool/internal/users"
)

func setup() *commandLine {
	return &commandLine{
		cfg:      config.App{SeedAdminEmail: "admin@school.test", SeedAdminName: "Admin"},
		usrSvc:   users.NewService(users.NewMemoryRepository(), nil, nil),
		mediaSvc: media.NewService(media.NewMemoryRepository(), nil, nil),
		log:      slog.Default(),
	}
}

func Test_commandLine_run(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "no subcommand", args: []string{"seed"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"seed", "lol"}, wantErr: errHelp},
		{name: "admin without password", args: []string{"seed", "admin"}, wantErr: errHelp},
		{name: "banners", args: []string{"seed", "banners"}},
		{name: "admin", args: []string{"seed", "admin", "-password", "bootstrap-pass"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := setup().run(ctx, tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func Test_commandLine_allIsIdempotent(t *testing.T) {
	ctx := context.Background()
	cli := setup()
	args := []string{"seed", "all", "-password", "bootstrap-pass"}
	require.NoError(t, cli.run(ctx, args))
	require.NoError(t, cli.run(ctx, args))

	list, err := cli.usrSvc.List(ctx, auth.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, auth.RoleAdmin, list[0].Role)

	banners, err := cli.mediaSvc.ActiveBanners(ctx)
	require.NoError(t, err)
	assert.Len(t, banners, len(media.DefaultBanners))
}
