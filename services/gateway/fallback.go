package gateway

import (
	"levi/utils"

	"go.uber.org/zap"
)

// readWithFallback runs fetch and substitutes the mock dataset when the backend could not
// be reached. Every other failure is returned unchanged. Write operations never go
// through here.
func readWithFallback[T any](c *Client, op string, fetch func() (T, error), mock func() T) (T, error) {
	v, err := fetch()
	if err == nil {
		return v, nil
	}
	if utils.KindOf(err) != utils.KindTransport {
		var zero T
		return zero, err
	}
	c.logger.Warn("API error, falling back to mock data",
		zap.String("op", op),
		zap.Error(err),
	)
	return mock(), nil
}
