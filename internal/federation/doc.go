// Package federation retrieves SAML / WS-Federation metadata documents and
// normalizes them into the shape the identity layer consumes. Retrieval is
// retried with exponential backoff because identity providers are often
// unreachable while containers start up.
package federation
