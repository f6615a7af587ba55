package common

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	OK                  int = 200
	DATA_NOT_FOUND      int = 404
	RATE_LIMIT_EXCEEDED int = 429
)

// Proxy performs plain GET requests to external assets (avatars,
// memes) under the control of a rate limiter, so a burst of vouch
// renderings cannot hammer the CDN
type Proxy struct {
	header      map[string]string
	client      http.Client
	rateLimiter *RateLimiter
}

func NewProxy(header map[string]string, restrictions []Restriction) Proxy {
	return Proxy{header, http.Client{Timeout: 10 * time.Second}, NewRateLimiter(restrictions)}
}

// Request fetches the provided url, indicating if it is vital.
// Non vital requests may be rejected by the rate limiter
func (proxy *Proxy) Request(url string, vital bool) ([]byte, error) {

	if !proxy.rateLimiter.Allowed(vital) {
		return nil, fmt.Errorf("rate limiter is not allowing the request to %s", url)
	}

	request, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request for url %s: %w", url, err)
	}
	for key, value := range proxy.header {
		request.Header.Set(key, value)
	}

	res, err := proxy.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("could not perform request to %s: %w", url, err)
	}
	defer res.Body.Close()
	log.Debug().Msg(fmt.Sprintf("%d %s", res.StatusCode, url))

	switch res.StatusCode {
	case OK:
		stream, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, fmt.Errorf("could not read the response for url %s: %w", url, err)
		}
		return stream, nil
	case RATE_LIMIT_EXCEEDED:
		return nil, fmt.Errorf("rate limited by the remote side for url %s", url)
	default:
		return nil, fmt.Errorf("request to %s failed with status %d", url, res.StatusCode)
	}
}
