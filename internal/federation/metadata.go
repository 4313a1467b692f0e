package federation

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/crewjam/saml"
)

// Metadata is the identity-provider configuration extracted from a
// federation metadata document.
type Metadata struct {
	EntityID            string       `json:"issuer,omitempty"`
	IdentityProviderURL string       `json:"identityProviderUrl,omitempty"`
	EntryPoint          string       `json:"entryPoint,omitempty"`
	LogoutURL           string       `json:"logoutUrl,omitempty"`
	IdentifierFormat    string       `json:"identifierFormat,omitempty"`
	Cert                Certificates `json:"cert,omitempty"`
}

// Certificates holds base64 DER signing certificates. It encodes to JSON as
// a plain string when it holds exactly one certificate, and as an array
// otherwise.
type Certificates []string

func (c Certificates) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	return json.Marshal([]string(c))
}

func (c *Certificates) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = Certificates{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("certificates: %w", err)
	}
	*c = many
	return nil
}

// Normalize converts a parsed descriptor into Metadata. Cert carries every
// advertised signing certificate; Office 365 and other providers that rotate
// keys publish more than one.
func Normalize(desc *saml.EntityDescriptor) *Metadata {
	if desc == nil {
		return &Metadata{}
	}

	md := &Metadata{EntityID: desc.EntityID}

	var signingCerts []string
	for _, idp := range desc.IDPSSODescriptors {
		if md.IdentityProviderURL == "" {
			md.IdentityProviderURL = preferRedirect(idp.SingleSignOnServices)
		}
		if md.LogoutURL == "" {
			md.LogoutURL = preferRedirect(idp.SingleLogoutServices)
		}
		if md.IdentifierFormat == "" && len(idp.NameIDFormats) > 0 {
			md.IdentifierFormat = string(idp.NameIDFormats[0])
		}
		signingCerts = append(signingCerts, signingCertificates(idp.KeyDescriptors)...)
	}
	// WS-Federation security token services only publish RoleDescriptors.
	if len(signingCerts) == 0 {
		for _, role := range desc.RoleDescriptors {
			signingCerts = append(signingCerts, signingCertificates(role.KeyDescriptors)...)
		}
	}
	md.EntryPoint = md.IdentityProviderURL

	switch {
	case len(signingCerts) > 1:
		md.Cert = Certificates(signingCerts)
	case len(signingCerts) == 1:
		md.Cert = Certificates{signingCerts[0]}
	}
	return md
}

func preferRedirect(endpoints []saml.Endpoint) string {
	for _, ep := range endpoints {
		if ep.Binding == saml.HTTPRedirectBinding && ep.Location != "" {
			return ep.Location
		}
	}
	for _, ep := range endpoints {
		if ep.Location != "" {
			return ep.Location
		}
	}
	return ""
}

func signingCertificates(keys []saml.KeyDescriptor) []string {
	var out []string
	for _, key := range keys {
		if key.Use != "" && key.Use != "signing" {
			continue
		}
		for _, cert := range key.KeyInfo.X509Data.X509Certificates {
			if data := stripSpace(cert.Data); data != "" {
				out = append(out, data)
			}
		}
	}
	return out
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
