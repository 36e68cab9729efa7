package banlist

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

type cacheConnInfo struct {
	addr     string
	username string
	password string
	selectDB int
	useTLS   bool
}

func parseCacheURL(raw string) (cacheConnInfo, error) {
	if strings.TrimSpace(raw) == "" {
		return cacheConnInfo{}, errors.New("ban cache url is empty")
	}

	if !strings.Contains(raw, "://") {
		return parseCacheAddr(raw)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return cacheConnInfo{}, fmt.Errorf("parse url: %w", err)
	}

	host := parsed.Hostname()
	if host == "" {
		return cacheConnInfo{}, errors.New("ban cache host missing")
	}

	port := parsed.Port()
	if port == "" {
		port = "6379"
	}

	selectDB := 0
	if strings.TrimSpace(parsed.Path) != "" && parsed.Path != "/" {
		path := strings.TrimPrefix(parsed.Path, "/")
		db, err := strconv.Atoi(path)
		if err != nil {
			return cacheConnInfo{}, fmt.Errorf("invalid ban cache db: %w", err)
		}
		if db < 0 {
			return cacheConnInfo{}, errors.New("invalid ban cache db")
		}
		selectDB = db
	}

	username := ""
	password := ""
	if parsed.User != nil {
		username = parsed.User.Username()
		pw, _ := parsed.User.Password()
		password = pw
	}

	useTLS := strings.EqualFold(parsed.Scheme, "rediss") || strings.EqualFold(parsed.Scheme, "valkeys")

	return cacheConnInfo{
		addr:     net.JoinHostPort(host, port),
		username: username,
		password: password,
		selectDB: selectDB,
		useTLS:   useTLS,
	}, nil
}

func parseCacheAddr(addr string) (cacheConnInfo, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return cacheConnInfo{}, errors.New("ban cache address is empty")
	}

	host, port, err := net.SplitHostPort(trimmed)
	if err != nil {
		var addrErr *net.AddrError
		if !errors.As(err, &addrErr) {
			return cacheConnInfo{}, fmt.Errorf("invalid ban cache address: %w", err)
		}
		switch addrErr.Err {
		case "missing port in address":
			host = strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]")
			port = "6379"
		case "too many colons in address":
			host = trimmed
			port = "6379"
		default:
			return cacheConnInfo{}, fmt.Errorf("invalid ban cache address: %w", err)
		}
	}

	if strings.TrimSpace(host) == "" {
		return cacheConnInfo{}, errors.New("ban cache host missing")
	}

	return cacheConnInfo{addr: net.JoinHostPort(host, port)}, nil
}
