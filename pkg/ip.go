package pkg

import (
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
)

var (
	localDockerIpRegex = regexp.MustCompile(`^172\.\d{1,3}\.0\.1:\d{1,5}`)
)

func IPIsLocal(ipAddr string) bool {
	// used in local development ?
	if strings.HasPrefix(ipAddr, "127.0.0.1:") || strings.HasPrefix(ipAddr, "[::1]:") {
		return true
	}

	// user within docker container ?
	return localDockerIpRegex.MatchString(ipAddr)
}

// ReadUserIP returns the client IP of the request, preferring proxy headers.
// Local and docker bridge addresses are reported as "localhost".
func ReadUserIP(r *http.Request) (string, error) {
	ipAddr := r.Header.Get("X-Real-Ip")
	if ipAddr == "" {
		// X-Forwarded-For: client, proxy1, proxy2
		ipAddr = strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-For"), ",")[0])
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}
	return normalizeIP(ipAddr)
}

// ReadClientIP is ReadUserIP for decisions a client must not be able to steer.
// Without trustProxy only the connection address counts. With it, X-Real-Ip is used,
// else the last X-Forwarded-For entry, which is the one our proxy appended.
func ReadClientIP(r *http.Request, trustProxy bool) (string, error) {
	var ipAddr string
	if trustProxy {
		ipAddr = r.Header.Get("X-Real-Ip")
		if ipAddr == "" {
			hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
			ipAddr = strings.TrimSpace(hops[len(hops)-1])
		}
	}
	if ipAddr == "" {
		ipAddr = r.RemoteAddr
	}
	return normalizeIP(ipAddr)
}

func normalizeIP(ipAddr string) (string, error) {
	if IPIsLocal(ipAddr) {
		return "localhost", nil
	}

	if host, _, err := net.SplitHostPort(ipAddr); err == nil {
		ipAddr = host
	}

	if ip := net.ParseIP(ipAddr); ip == nil {
		return "", fmt.Errorf("ip addr %s is invalid", ipAddr)
	}

	return ipAddr, nil
}
