package policy

import "testing"

func TestExtractCamelCase(t *testing.T) {
	raw := `{"properties":{"roleName":"app-role","secretEnginePath":"/secret/","namespace":"ns1"}}`

	p, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract(): %v", err)
	}
	if p.RoleName != "app-role" {
		t.Fatalf("RoleName = %q, want %q", p.RoleName, "app-role")
	}
	if p.SecretEnginePath != "secret" {
		t.Fatalf("SecretEnginePath = %q, want %q", p.SecretEnginePath, "secret")
	}
	if p.Namespace != "ns1" {
		t.Fatalf("Namespace = %q, want %q", p.Namespace, "ns1")
	}
}

func TestExtractSnakeCaseAlias(t *testing.T) {
	raw := `{"properties":{"role_name":"app-role","secret_engine_path":"secret"}}`

	p, err := Extract(raw)
	if err != nil {
		t.Fatalf("Extract(): %v", err)
	}
	if p.RoleName != "app-role" {
		t.Fatalf("RoleName = %q, want %q", p.RoleName, "app-role")
	}
	if p.SecretEnginePath != "secret" {
		t.Fatalf("SecretEnginePath = %q, want %q", p.SecretEnginePath, "secret")
	}
}

func TestExtractMissingProperties(t *testing.T) {
	if _, err := Extract(`{}`); err == nil {
		t.Fatal("Extract() with missing properties succeeded, want error")
	}
}

func TestExtractMissingRoleName(t *testing.T) {
	if _, err := Extract(`{"properties":{"namespace":"ns1"}}`); err == nil {
		t.Fatal("Extract() with missing roleName succeeded, want error")
	}
}

func TestExtractInvalidJSON(t *testing.T) {
	if _, err := Extract(`not json`); err == nil {
		t.Fatal("Extract() with invalid JSON succeeded, want error")
	}
}
