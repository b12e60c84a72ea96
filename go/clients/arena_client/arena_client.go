package arena_client

import (
	"github.com/mcdev12/wordarena/go/clients"
	"github.com/mcdev12/wordarena/go/internal/users"
)

// ArenaClient is the session issuer of the arena server.
type ArenaClient struct {
	*clients.BaseClient
}

var _ users.Issuer = (*ArenaClient)(nil)

func NewArenaClient(baseURL string) *ArenaClient {
	return &ArenaClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}
}
