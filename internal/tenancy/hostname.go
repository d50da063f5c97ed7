package tenancy

import "strings"

// ParseSubdomain extracts the leftmost subdomain label from a request
// hostname, relative to the configured root domain.
//
//	"burgerhouse.dineos.localhost:3000" -> "burgerhouse"
//	"a.b.dineos.localhost"              -> "a"
//	"dineos.localhost:3000"             -> "" (root domain)
//	"unrelated.example.com"             -> "" (treated as root by policy)
//
// Ports are stripped from both sides before comparison; a port is never part
// of tenant identity. The function is total: it never fails, unknown hosts
// degrade to the root-domain result.
func ParseSubdomain(hostname, rootDomain string) string {
	host := stripPort(hostname)
	root := stripPort(rootDomain)

	if host == root {
		return ""
	}
	if !strings.HasSuffix(host, "."+root) {
		return ""
	}

	sub := strings.TrimSuffix(host, "."+root)

	// Multi-level subdomains collapse to the first label.
	label, _, _ := strings.Cut(sub, ".")
	return label
}

func stripPort(hostport string) string {
	host, _, _ := strings.Cut(hostport, ":")
	return host
}
