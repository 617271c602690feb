// Package common contains shared constants and sentinel errors used across
// KnowledgeKeeper client components.
package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer token
// on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the access token in the Authorization header.
const BearerScheme = "Bearer "

// PublicEntryPoint is the command an unauthenticated user is sent to.
const PublicEntryPoint = "login"
