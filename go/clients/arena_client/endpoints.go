package arena_client

const (
	LoginEndpoint    = "/api/login"
	RegisterEndpoint = "/api/register"
	MeEndpoint       = "/api/@me"

	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)
