package services

import (
	"fmt"
	"sync"

	authorizer "github.com/localnerve/authorizer-go"
	"github.com/localnerve/roomscan-api/internal/config"
	"github.com/localnerve/roomscan-api/internal/utils"
	"go.uber.org/zap"
)

// Authorizer validates admin sessions against an Authorizer instance.
// The client is created lazily on the first request, once the public
// redirect URL is known. A failed initialization is retried on the next request.
type Authorizer struct {
	cfg *config.Config
	log *zap.Logger

	mu     sync.Mutex
	client *authorizer.AuthorizerClient
}

// NewAuthorizer returns an Authorizer for cfg. It is disabled when AUTHZ_URL is unset.
func NewAuthorizer(cfg *config.Config, log *zap.Logger) *Authorizer {
	return &Authorizer{cfg: cfg, log: log}
}

// Enabled reports whether sessions are validated at all
func (a *Authorizer) Enabled() bool {
	return a != nil && a.cfg.AuthEnabled()
}

func (a *Authorizer) getClient(requestProtocol, requestHost string) (*authorizer.AuthorizerClient, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	if err := utils.PingAuthorizer(a.cfg.AuthzURL); err != nil {
		return nil, fmt.Errorf("authorizer ping failed: %w", err)
	}

	redirectURL := fmt.Sprintf("%s://%s", requestProtocol, requestHost)
	a.log.Info("initializing authorizer",
		zap.String("authorizer_url", a.cfg.AuthzURL),
		zap.String("client_id", a.cfg.AuthzClientID),
		zap.String("redirect_url", redirectURL))

	client, err := authorizer.NewAuthorizerClient(a.cfg.AuthzClientID, a.cfg.AuthzURL, redirectURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorizer client: %w", err)
	}
	a.client = client
	return client, nil
}

// ValidateSession validates a session cookie for the given roles and returns the
// session user
func (a *Authorizer) ValidateSession(requestProtocol, requestHost, cookie string, roles []string) (map[string]interface{}, error) {
	client, err := a.getClient(requestProtocol, requestHost)
	if err != nil {
		return nil, err
	}

	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	res, err := client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}

	if res == nil || !res.IsValid {
		return nil, fmt.Errorf("session is not valid")
	}

	return map[string]interface{}{
		"is_valid": res.IsValid,
		"user":     res.User,
	}, nil
}
