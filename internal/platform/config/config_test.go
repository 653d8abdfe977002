package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func baseEnv() map[string]string {
	return map[string]string{
		"API_FIREBASE_PROJECT_ID":   "siraq-dev",
		"API_STORAGE_ASSETS_BUCKET": "siraq-assets-dev",
		"API_MAIL_SMTP_HOST":        "smtp.gmail.com",
	}
}

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(baseEnv()), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Firestore.ProjectID != "siraq-dev" {
		t.Errorf("expected firestore project to default to firebase project, got %s", cfg.Firestore.ProjectID)
	}
	if cfg.RateLimits.DefaultPerMinute != 120 {
		t.Errorf("unexpected default rate limit: %d", cfg.RateLimits.DefaultPerMinute)
	}
	if cfg.RateLimits.OrdersPerMinute != 30 {
		t.Errorf("unexpected default orders rate limit: %d", cfg.RateLimits.OrdersPerMinute)
	}
	if cfg.Mail.Port != defaultSMTPPort {
		t.Errorf("unexpected default smtp port: %d", cfg.Mail.Port)
	}
	if cfg.Mail.To != defaultStudioEmail {
		t.Errorf("unexpected default notify recipient: %s", cfg.Mail.To)
	}
	if cfg.Site.WhatsAppNumber != defaultWhatsAppNumber {
		t.Errorf("unexpected default whatsapp number: %s", cfg.Site.WhatsAppNumber)
	}
	if !cfg.Features.EnableEmailNotifications {
		t.Error("expected email notifications enabled by default")
	}
}

func TestLoadWithOverridesAndSecrets(t *testing.T) {
	env := map[string]string{
		"API_SERVER_PORT":              "9090",
		"API_SERVER_READ_TIMEOUT":      "20s",
		"API_SERVER_WRITE_TIMEOUT":     "25s",
		"API_SERVER_IDLE_TIMEOUT":      "2m",
		"API_FIREBASE_PROJECT_ID":      "siraq-prod",
		"API_FIRESTORE_PROJECT_ID":     "siraq-fire",
		"API_STORAGE_ASSETS_BUCKET":    "assets-prod",
		"API_MAIL_SMTP_HOST":           "smtp.example.com",
		"API_MAIL_SMTP_PORT":           "465",
		"API_MAIL_SMTP_USERNAME":       "notify@example.com",
		"API_MAIL_SMTP_PASSWORD":       "secret://mail/password",
		"API_MAIL_NOTIFY_TO":           "orders@example.com",
		"API_SITE_WHATSAPP_NUMBER":     "+911234567890",
		"API_RATELIMIT_ORDERS_PER_MIN": "10",
	}

	secrets := map[string]string{
		"secret://mail/password": "app-password",
	}

	resolver := SecretResolverFunc(func(_ context.Context, ref string) (string, error) {
		if v, ok := secrets[ref]; ok {
			return v, nil
		}
		return "", &SecretError{Ref: ref, Err: errSecretResolverNotConfigured}
	})

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""), WithSecretResolver(resolver))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.IdleTimeout != 2*time.Minute {
		t.Errorf("unexpected idle timeout: %s", cfg.Server.IdleTimeout)
	}
	if cfg.Firestore.ProjectID != "siraq-fire" {
		t.Errorf("unexpected firestore project %s", cfg.Firestore.ProjectID)
	}
	if cfg.Mail.Password != "app-password" {
		t.Errorf("expected resolved smtp password, got %s", cfg.Mail.Password)
	}
	if cfg.Mail.Port != 465 {
		t.Errorf("unexpected smtp port %d", cfg.Mail.Port)
	}
	if cfg.Mail.From != "notify@example.com" {
		t.Errorf("expected from to default to username, got %s", cfg.Mail.From)
	}
	if cfg.Mail.To != "orders@example.com" {
		t.Errorf("unexpected notify recipient %s", cfg.Mail.To)
	}
	if cfg.Site.WhatsAppNumber != "+911234567890" {
		t.Errorf("unexpected whatsapp number %s", cfg.Site.WhatsAppNumber)
	}
	if cfg.RateLimits.OrdersPerMinute != 10 {
		t.Errorf("unexpected orders rate limit %d", cfg.RateLimits.OrdersPerMinute)
	}
}

func TestLoadDotEnvFallback(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "API_SERVER_PORT=7070\nAPI_FIREBASE_PROJECT_ID=siraq-dot\nAPI_STORAGE_ASSETS_BUCKET=assets-dot\nAPI_MAIL_SMTP_HOST=smtp.dot.example\n"
	if err := os.WriteFile(envPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write dotenv file: %v", err)
	}

	cfg, err := Load(context.Background(), WithEnvFile(envPath), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port from dotenv 7070, got %s", cfg.Server.Port)
	}
	if cfg.Firebase.ProjectID != "siraq-dot" {
		t.Errorf("expected firebase project from dotenv, got %s", cfg.Firebase.ProjectID)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	_, err := Load(context.Background(), WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestLoadMailOptionalWhenNotificationsDisabled(t *testing.T) {
	env := map[string]string{
		"API_FIREBASE_PROJECT_ID":         "siraq-dev",
		"API_STORAGE_ASSETS_BUCKET":       "assets",
		"API_FEATURE_EMAIL_NOTIFICATIONS": "false",
	}

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Features.EnableEmailNotifications {
		t.Error("expected email notifications disabled")
	}
}

func TestLoadSecretResolverError(t *testing.T) {
	env := baseEnv()
	env["API_MAIL_SMTP_PASSWORD"] = "secret://missing"

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected secret resolution error, got nil")
	}
	var secretErr *SecretError
	if !errors.As(err, &secretErr) {
		t.Fatalf("expected SecretError, got %T", err)
	}
	if secretErr.Ref != "secret://missing" {
		t.Errorf("unexpected secret ref %s", secretErr.Ref)
	}
}

func TestEnvironmentValuesMergesSources(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "API_FIREBASE_PROJECT_ID=dot-project\nAPI_SECRET_FALLBACK_FILE=.dot.local\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed writing env file: %v", err)
	}

	t.Setenv("API_FIREBASE_PROJECT_ID", "os-project")
	t.Setenv("API_SECRET_PROJECT_IDS", "prod=project-prod")

	overrides := map[string]string{
		"API_FIREBASE_PROJECT_ID": "override-project",
		"API_SECRET_VERSION_PINS": "secret://mail/password=5",
	}

	values, err := EnvironmentValues(WithEnvFile(envPath), WithEnvMap(overrides))
	if err != nil {
		t.Fatalf("EnvironmentValues returned error: %v", err)
	}

	if got := values["API_FIREBASE_PROJECT_ID"]; got != "override-project" {
		t.Fatalf("expected override project, got %s", got)
	}
	if got := values["API_SECRET_FALLBACK_FILE"]; got != ".dot.local" {
		t.Fatalf("expected dotenv fallback file, got %s", got)
	}
	if got := values["API_SECRET_PROJECT_IDS"]; got != "prod=project-prod" {
		t.Fatalf("expected system env project map, got %s", got)
	}
	if got := values["API_SECRET_VERSION_PINS"]; got != "secret://mail/password=5" {
		t.Fatalf("expected override version pin, got %s", got)
	}
}

func TestLoadMissingRequiredSecrets(t *testing.T) {
	_, err := Load(context.Background(),
		WithEnvMap(baseEnv()),
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithRequiredSecrets("Mail.Password"),
	)
	if err == nil {
		t.Fatal("expected missing secrets error, got nil")
	}
	var missing *MissingSecretsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingSecretsError, got %T", err)
	}
	expectedRedacted := redactSecretName("Mail.Password")
	if got := missing.RedactedNames(); len(got) != 1 || got[0] != expectedRedacted {
		t.Fatalf("unexpected redacted names %v", got)
	}
}

func TestLoadMissingRequiredSecretsPanic(t *testing.T) {
	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatal("expected panic when required secrets missing")
		}
		missing, ok := rec.(*MissingSecretsError)
		if !ok {
			t.Fatalf("expected MissingSecretsError panic, got %T", rec)
		}
		if len(missing.Names()) != 1 || missing.Names()[0] != "Mail.Password" {
			t.Fatalf("unexpected missing secrets %v", missing.Names())
		}
	}()

	Load(context.Background(),
		WithEnvMap(baseEnv()),
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithRequiredSecrets("Mail.Password"),
		WithPanicOnMissingSecrets(),
	)
}

func TestLoadSupportsLegacySecretScheme(t *testing.T) {
	env := baseEnv()
	env["API_MAIL_SMTP_PASSWORD"] = "sm://mail/password"

	secrets := map[string]string{
		"secret://mail/password": "legacy-secret",
	}

	resolver := SecretResolverFunc(func(_ context.Context, ref string) (string, error) {
		if v, ok := secrets[ref]; ok {
			return v, nil
		}
		return "", &SecretError{Ref: ref, Err: errors.New("not found")}
	})

	cfg, err := Load(context.Background(),
		WithEnvMap(env),
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithSecretResolver(resolver),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Mail.Password != "legacy-secret" {
		t.Fatalf("expected legacy secret, got %s", cfg.Mail.Password)
	}
}
