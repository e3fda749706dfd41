// Package policy extracts the Vault authorization policy embedded in
// a secret request's application context.
package policy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Policy is the Vault-facing authorization policy for one application,
// decoded from the request's `context.application.policy` document.
type Policy struct {
	RoleName         string
	SecretEnginePath string
	Namespace        string
}

// properties mirrors the `.properties` object of the policy document,
// accepting both the camelCase and snake_case spellings the original
// policy authoring tooling has produced historically.
type properties struct {
	RoleName        string `json:"roleName"`
	RoleNameAlias   string `json:"role_name"`
	EnginePath      string `json:"secretEnginePath"`
	EnginePathAlias string `json:"secret_engine_path"`
	Namespace       string `json:"namespace"`
}

type policyDocument struct {
	Properties *properties `json:"properties"`
}

// Extract parses rawPolicy (the JSON string carried in
// context.application.policy) and returns the Vault policy it
// describes. roleName is required; secretEnginePath and namespace are
// optional. Leading/trailing slashes on secretEnginePath are trimmed.
func Extract(rawPolicy string) (Policy, error) {
	var doc policyDocument
	if err := json.Unmarshal([]byte(rawPolicy), &doc); err != nil {
		return Policy{}, fmt.Errorf("extract policy: %w", err)
	}
	if doc.Properties == nil {
		return Policy{}, fmt.Errorf("extract policy: missing properties")
	}

	roleName := doc.Properties.RoleName
	if roleName == "" {
		roleName = doc.Properties.RoleNameAlias
	}
	if roleName == "" {
		return Policy{}, fmt.Errorf("extract policy: missing roleName")
	}

	enginePath := doc.Properties.EnginePath
	if enginePath == "" {
		enginePath = doc.Properties.EnginePathAlias
	}
	enginePath = strings.Trim(enginePath, "/")

	return Policy{
		RoleName:         roleName,
		SecretEnginePath: enginePath,
		Namespace:        doc.Properties.Namespace,
	}, nil
}
