package common

const (
	// AuthorizationHeaderName is the HTTP header carrying the session token.
	AuthorizationHeaderName = "Authorization"

	// AuthorizationMetadataKey is the gRPC metadata key carrying the session token.
	// gRPC lowercases metadata keys.
	AuthorizationMetadataKey = "authorization"

	// BearerScheme prefixes the token in both the header and the metadata value.
	BearerScheme = "Bearer"
)
