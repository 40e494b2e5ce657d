package config

import (
	"context"
	"fmt"

	"github.com/cleitonmarx/symbiont/config"
	"github.com/hashicorp/vault/api"
)

// VaultProvider reads configuration values from one KVv2 secret in HashiCorp
// Vault. Secrets like the Gemini API key and database credentials live there;
// everything else comes from the environment.
type VaultProvider struct {
	client     *api.Client
	mountPath  string
	secretPath string
}

// NewVaultProvider connects to the Vault server and scopes the provider to
// mountPath/secretPath (e.g. "secret" / "academy-crm").
func NewVaultProvider(server, token, mountPath, secretPath string) (VaultProvider, error) {
	for name, v := range map[string]string{
		"server": server, "token": token, "mountPath": mountPath, "secretPath": secretPath,
	} {
		if v == "" {
			return VaultProvider{}, fmt.Errorf("%s is required", name)
		}
	}

	cfg := api.DefaultConfig()
	cfg.Address = server

	client, err := api.NewClient(cfg)
	if err != nil {
		return VaultProvider{}, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(token)

	return VaultProvider{
		client:     client,
		mountPath:  mountPath,
		secretPath: secretPath,
	}, nil
}

// Get looks up key inside the configured secret.
func (vp VaultProvider) Get(ctx context.Context, key string) (string, error) {
	secret, err := vp.client.KVv2(vp.mountPath).Get(ctx, vp.secretPath)
	if err != nil {
		return "", err
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("vault secret %s not found", vp.secretPath)
	}

	value, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("vault secret %s does not contain key %s", vp.secretPath, key)
	}
	strValue, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("vault secret key %s is not a string", key)
	}
	return strValue, nil
}

var _ config.Provider = (*VaultProvider)(nil)

// InitVaultProvider installs the global config provider chain: environment
// first, Vault second. With no VAULT_ADDR set the chain is env-only, which is
// how local development runs.
type InitVaultProvider struct {
	Server     string `config:"VAULT_ADDR" default:"-"`
	Token      string `config:"VAULT_TOKEN" default:"-"`
	MountPath  string `config:"VAULT_MOUNT_PATH" default:"secret"`
	SecretPath string `config:"VAULT_SECRET_PATH" default:"academy-crm"`
}

func (ivp InitVaultProvider) Initialize(ctx context.Context) (context.Context, error) {
	if ivp.Server == "-" {
		config.SetGlobalProvider(config.EnvVarProvider{})
		return ctx, nil
	}

	vaultProvider, err := NewVaultProvider(ivp.Server, ivp.Token, ivp.MountPath, ivp.SecretPath)
	if err != nil {
		return ctx, fmt.Errorf("failed to initialize Vault provider: %w", err)
	}

	config.SetGlobalProvider(config.NewCompositeProvider(
		config.EnvVarProvider{},
		vaultProvider,
	))
	return ctx, nil
}
