// ABOUTME: Cookie jar carrying the long-lived refresh credential between runs
// ABOUTME: Cookies set by the API host are mirrored into the durable store

package client

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
)

const cookiesKey = "cookies"

// KV is the durable storage the jar mirrors cookies into
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitzero"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
}

type persistentJar struct {
	*cookiejar.Jar
	kv     KV
	host   string
	logger *slog.Logger

	mu      sync.Mutex
	cookies map[string]storedCookie
}

func newCookieJar(base *url.URL, kv KV, logger *slog.Logger) (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	if kv == nil {
		return jar, nil
	}

	pj := &persistentJar{
		Jar:     jar,
		kv:      kv,
		host:    base.Hostname(),
		logger:  logger,
		cookies: map[string]storedCookie{},
	}
	pj.restore(base)
	return pj, nil
}

func (j *persistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.Jar.SetCookies(u, cookies)
	if u.Hostname() != j.host {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	for _, c := range cookies {
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now)) {
			delete(j.cookies, c.Name)
			continue
		}
		sc := storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if c.MaxAge > 0 {
			sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		j.cookies[c.Name] = sc
	}
	j.persist()
}

func (j *persistentJar) restore(base *url.URL) {
	raw, ok, err := j.kv.Get(cookiesKey)
	if err != nil || !ok {
		return
	}

	var stored []storedCookie
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		j.logger.Warn("discarding unreadable cookie store", "error", err)
		return
	}

	now := time.Now()
	origin := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}
	var restored []*http.Cookie
	for _, sc := range stored {
		if !sc.Expires.IsZero() && sc.Expires.Before(now) {
			continue
		}
		j.cookies[sc.Name] = sc
		restored = append(restored, &http.Cookie{
			Name:     sc.Name,
			Value:    sc.Value,
			Path:     sc.Path,
			Domain:   sc.Domain,
			Expires:  sc.Expires,
			Secure:   sc.Secure,
			HttpOnly: sc.HttpOnly,
		})
	}
	j.Jar.SetCookies(origin, restored)
}

// persist must be called with j.mu held
func (j *persistentJar) persist() {
	if len(j.cookies) == 0 {
		if err := j.kv.Remove(cookiesKey); err != nil {
			j.logger.Warn("failed to clear stored cookies", "error", err)
		}
		return
	}

	stored := make([]storedCookie, 0, len(j.cookies))
	for _, sc := range j.cookies {
		stored = append(stored, sc)
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return
	}
	if err := j.kv.Set(cookiesKey, string(data)); err != nil {
		j.logger.Warn("failed to persist cookies", "error", err)
	}
}

// clear drops every mirrored cookie from the durable store
func (j *persistentJar) clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies = map[string]storedCookie{}
	j.persist()
}
