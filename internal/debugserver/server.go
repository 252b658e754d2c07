// Package debugserver exposes a small HTTP service for remotely exercising
// a packrat grammar: submit source text to /parse and get back its token
// list and parse tree as JSON, gated behind a bearer-token session issued
// by /login.
package debugserver

import (
	"encoding/json"
	"net/http"

	packrat "github.com/dekarrin/packrat"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"
)

// Server is a configured, ready-to-run debug HTTP service.
type Server struct {
	cfg    Config
	router chi.Router
	parser *packrat.DefaultParser[configNode, configTag]
}

// New builds a Server from cfg, wiring up routes and the demo grammar.
func New(cfg Config) (*Server, error) {
	parser, err := newConfigParser()
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, parser: parser}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(recoverPanic)
	r.Post("/login", s.handleLogin)
	r.Get("/health", s.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth(cfg.TokenSecret, cfg.UnauthDelay()))
		r.Post("/parse", s.handleParse)
		r.Get("/grammar", s.handleGrammar)
	})
	s.router = r

	return s, nil
}

// ListenAndServe blocks serving HTTP on cfg.ListenAddr.
func (s *Server) ListenAndServe() error {
	return http.ListenAndServe(s.cfg.ListenAddr, s.router)
}

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		badRequest("could not decode request body: %s", err).write(w)
		return
	}

	if bcrypt.CompareHashAndPassword(s.cfg.PasswordHash, []byte(body.Password)) != nil {
		unauthorized("incorrect password").write(w)
		return
	}

	tok, err := issueSessionToken(s.cfg.TokenSecret)
	if err != nil {
		internalServerError("could not issue token: %s", err).write(w)
		return
	}
	ok(map[string]string{"token": tok}).write(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	ok(map[string]string{"status": "ok"}).write(w)
}

type parseRequest struct {
	Source string `json:"source"`
}

type apiToken struct {
	Tag   string `json:"tag"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type apiNode struct {
	Tag      string    `json:"tag"`
	Start    int       `json:"start"`
	End      int       `json:"end"`
	Children []apiNode `json:"children"`
}

func toAPINode(n packrat.ASTNode[configNode]) apiNode {
	children := make([]apiNode, len(n.Children))
	for i, c := range n.Children {
		children[i] = toAPINode(c)
	}
	return apiNode{Tag: n.Tag.String(), Start: n.Start, End: n.End, Children: children}
}

func (s *Server) handleParse(w http.ResponseWriter, req *http.Request) {
	var body parseRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		badRequest("could not decode request body: %s", err).write(w)
		return
	}

	src := []byte(body.Source)
	toks, tree, err := s.parser.TokenizeAndParse(src)
	if err != nil {
		badRequest("parse error: %s", err).write(w)
		return
	}

	apiToks := make([]apiToken, len(toks))
	for i, t := range toks {
		apiToks[i] = apiToken{Tag: string(t.Tag), Text: string(src[t.Start:t.End]), Start: t.Start, End: t.End}
	}
	apiTree := make([]apiNode, len(tree))
	for i, n := range tree {
		apiTree[i] = toAPINode(n)
	}

	ok(map[string]interface{}{"tokens": apiToks, "tree": apiTree}).write(w)
}

func (s *Server) handleGrammar(w http.ResponseWriter, req *http.Request) {
	grammar, err := s.parser.Grammar()
	if err != nil {
		internalServerError("could not render grammar: %s", err).write(w)
		return
	}
	ok(map[string]string{"grammar": grammar}).write(w)
}
