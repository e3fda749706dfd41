// Command secrets-vault-broker runs the wasmCloud secrets broker for
// HashiCorp Vault.
package main

import "github.com/wasmcloud-contrib/secrets-vault-broker/internal/cli"

func main() {
	cli.Execute()
}
