// ABOUTME: Local HTTP listener that receives the access token after OAuth sign-in
// ABOUTME: The backend redirects the browser to /auth/callback?token=...

package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// CallbackPath is where the backend sends the browser after sign-in
const CallbackPath = "/auth/callback"

// ErrNoToken is returned when the callback arrives without a token
var ErrNoToken = errors.New("no se recibió token")

const callbackPage = `<!doctype html><html><body style="font-family:sans-serif;text-align:center;margin-top:4em">
<p>%s</p><p>Puedes cerrar esta ventana.</p></body></html>`

// CallbackServer waits for a single OAuth callback
type CallbackServer struct {
	listener net.Listener
	server   *http.Server
	result   chan callbackResult
}

type callbackResult struct {
	token string
	err   error
}

// ListenCallback binds the callback listener on addr (host:port)
func ListenCallback(addr string) (*CallbackServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("cannot listen for sign-in callback on %s: %w", addr, err)
	}

	cs := &CallbackServer{
		listener: ln,
		result:   make(chan callbackResult, 1),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+CallbackPath, cs.handle)
	cs.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go cs.server.Serve(ln)
	return cs, nil
}

// URL is the address the backend must redirect to
func (cs *CallbackServer) URL() string {
	return "http://" + cs.listener.Addr().String() + CallbackPath
}

// Wait blocks until the callback arrives or ctx ends, then stops the listener
func (cs *CallbackServer) Wait(ctx context.Context) (string, error) {
	defer cs.Close()

	select {
	case res := <-cs.result:
		return res.token, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close stops the listener
func (cs *CallbackServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return cs.server.Shutdown(ctx)
}

func (cs *CallbackServer) handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	res := callbackResult{token: token}
	if token == "" {
		res.err = ErrNoToken
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, callbackPage, "No se recibió token. Intenta iniciar sesión de nuevo.")
	} else {
		fmt.Fprintf(w, callbackPage, "Sesión iniciada.")
	}

	select {
	case cs.result <- res:
	default:
		// Only the first callback counts
	}
}
