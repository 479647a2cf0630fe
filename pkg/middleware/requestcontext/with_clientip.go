package requestcontext

import (
	"context"
	"net"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/nft-minter/pkg/logger"
	"github.com/gaze-network/nft-minter/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

type clientIPKey struct{}

type WithClientIPConfig struct {
	// TrustedProxiesIP lists the CIDR ranges of every proxy in front of the server.
	// When set, X-Forwarded-For is walked backwards and the first untrusted address wins.
	TrustedProxiesIP []string `mapstructure:"trusted_proxies_ip"`

	// TrustedHeader names a header carrying the client address (X-Real-IP, CF-Connecting-IP).
	// A valid address in it takes precedence over everything else.
	TrustedHeader string `mapstructure:"trusted_header"`

	// EnableRejectMalformedRequest answers 403 when the request came through
	// proxies but no client address can be trusted.
	EnableRejectMalformedRequest bool `mapstructure:"enable_reject_malformed_request"`
}

// WithClientIP stores the client address, guarding against X-Forwarded-For spoofing.
// It panics when a trusted proxy range is not a valid CIDR.
func WithClientIP(config WithClientIPConfig) Option {
	proxies, err := parseCIDRs(config.TrustedProxiesIP)
	if err != nil {
		logger.Panic("Failed to parse trusted proxies", slogx.Error(err))
	}

	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		ip, err := clientIP(c, config, proxies)
		if err != nil {
			logger.WarnContext(ctx, "IP spoofing detected, rejecting request",
				slogx.String("event", "requestcontext/ip_spoofing_detected"),
				slogx.String("ip", c.IP()),
				slogx.Any("ips", c.IPs()),
			)
			return nil, err
		}
		return context.WithValue(ctx, clientIPKey{}, ip), nil
	}
}

func clientIP(c *fiber.Ctx, config WithClientIPConfig, proxies []*net.IPNet) (string, error) {
	if config.TrustedHeader != "" {
		if ip := c.Get(config.TrustedHeader); net.ParseIP(ip) != nil {
			return ip, nil
		}
	}

	forwarded := c.IPs()
	if len(forwarded) == 0 {
		return c.IP(), nil
	}

	if len(proxies) > 0 {
		for i := len(forwarded) - 1; i >= 0; i-- {
			if ip := net.ParseIP(forwarded[i]); ip != nil && !trusted(proxies, ip) {
				return forwarded[i], nil
			}
		}
		return forwarded[0], nil
	}

	if config.EnableRejectMalformedRequest {
		return "", rejection{status: fiber.StatusForbidden, message: "not allowed to access"}
	}
	return forwarded[0], nil
}

// GetClientIP returns the address stored by [WithClientIP], or "".
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

func trusted(proxies []*net.IPNet, ip net.IP) bool {
	for _, r := range proxies {
		if r.Contains(ip) {
			return true
		}
	}
	return false
}

func parseCIDRs(ranges []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(ranges))
	for _, r := range ranges {
		_, ipnet, err := net.ParseCIDR(r)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse CIDR %q", r)
		}
		nets = append(nets, ipnet)
	}
	return nets, nil
}
