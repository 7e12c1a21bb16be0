package ethereum

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultHandshakeTimeout = 10 * time.Second

var (
	// ErrNullEndpoint ...
	ErrNullEndpoint = errors.New("node endpoint must not be null")
	// ErrInvalidEndpointScheme ...
	ErrInvalidEndpointScheme = errors.New(
		"node endpoint scheme must be one of ws, wss, http or https",
	)
)

// Config holds the parameters for connecting to a node.
type Config struct {
	// Endpoint is the node url, ie. wss://mainnet.infura.io/ws/v3.
	Endpoint string
	// ProjectID is the optional provider project identifier, appended to the
	// endpoint path.
	ProjectID string
	// ProjectSecret is the optional provider project secret, sent as basic
	// auth password.
	ProjectSecret string
	// HandshakeTimeout bounds the websocket handshake.
	HandshakeTimeout time.Duration
	// RequestTimeout bounds every single request to the node. Zero means no
	// timeout other than the one of the given context.
	RequestTimeout time.Duration
}

func (c Config) validate() error {
	if len(strings.TrimSpace(c.Endpoint)) <= 0 {
		return ErrNullEndpoint
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid node endpoint: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss", "http", "https":
	default:
		return ErrInvalidEndpointScheme
	}
	return nil
}

// URL returns the endpoint to dial, with the project id appended to its path
// if defined.
func (c Config) URL() (string, error) {
	if err := c.validate(); err != nil {
		return "", err
	}
	if c.ProjectID == "" {
		return c.Endpoint, nil
	}

	u, _ := url.Parse(c.Endpoint)
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + url.PathEscape(c.ProjectID)
	return u.String(), nil
}

func (c Config) headers() http.Header {
	header := http.Header{}
	if c.ProjectSecret != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(":" + c.ProjectSecret))
		header.Set("Authorization", "Basic "+auth)
	}
	return header
}

func (c Config) handshakeTimeout() time.Duration {
	if c.HandshakeTimeout <= 0 {
		return defaultHandshakeTimeout
	}
	return c.HandshakeTimeout
}
