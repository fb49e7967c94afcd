// Gateway API implementation
package gateway

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nPaBwaYT/desref/cripta"
	"github.com/nPaBwaYT/desref/internal/config"
	"github.com/nPaBwaYT/desref/internal/helpers"
	"github.com/nPaBwaYT/desref/internal/keyderiv"
	"github.com/nPaBwaYT/desref/internal/textcodec"
)

// maxRequestBytes caps the JSON body of encrypt and decrypt requests.
const maxRequestBytes = 1 << 20

var errMissingKey = errors.New("key or passphrase is required")

// Server represents the encryption API gateway
type Server struct {
	addr   string
	cfg    *config.Config
	logger *helpers.Logger
	cache  *cripta.RoundKeyCache
}

// cryptRequest is the body of both /api/encrypt and /api/decrypt.
// Data is hex; Text is used by encrypt when Data is empty.
type cryptRequest struct {
	Key        string `json:"key"`
	Passphrase string `json:"passphrase"`
	IV         string `json:"iv"`
	Mode       string `json:"mode"`
	Padding    string `json:"padding"`
	Data       string `json:"data"`
	Text       string `json:"text"`
	Charset    string `json:"charset"`
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// New creates a new gateway server
func New(cfg *config.Config, logger *helpers.Logger) *Server {
	return &Server{
		addr:   cfg.Addr(),
		cfg:    cfg,
		logger: logger,
		cache:  cripta.NewRoundKeyCache(256),
	}
}

// Router builds the HTTP handler with all routes registered
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	// Root endpoint - return OK for health checks
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("DES API Server"))
	}).Methods("GET", "OPTIONS")

	router.HandleFunc("/api/encrypt", s.handleEncrypt).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/decrypt", s.handleDecrypt).Methods("POST", "OPTIONS")

	return corsMiddleware(router)
}

// Start starts the gateway server
func (s *Server) Start() error {
	s.logger.Info("gateway listening", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.Router())
}

// buildContext turns request parameters into a cipher context,
// falling back to configured defaults for mode and padding.
func (s *Server) buildContext(req *cryptRequest) (*cripta.CipherContext, error) {
	modeName := req.Mode
	if modeName == "" {
		modeName = s.cfg.Cipher.Mode
	}
	mode, err := cripta.ParseCipherMode(modeName)
	if err != nil {
		return nil, err
	}

	paddingName := req.Padding
	if paddingName == "" {
		paddingName = s.cfg.Cipher.Padding
	}
	padding, err := cripta.ParsePaddingMode(paddingName)
	if err != nil {
		return nil, err
	}

	var key, iv []byte
	salt := []byte(s.cfg.KDF.Salt)

	switch {
	case req.Key != "":
		key, err = hex.DecodeString(req.Key)
		if err != nil {
			return nil, fmt.Errorf("invalid key hex: %w", err)
		}
	case req.Passphrase != "":
		key, err = keyderiv.DeriveKey(req.Passphrase, salt, s.cfg.KDF.Iterations)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errMissingKey
	}

	if req.IV != "" {
		iv, err = hex.DecodeString(req.IV)
		if err != nil {
			return nil, fmt.Errorf("invalid iv hex: %w", err)
		}
	} else if req.Passphrase != "" && req.Key == "" && mode != cripta.CipherModeECB {
		iv, err = keyderiv.DeriveIV(req.Passphrase, salt, s.cfg.KDF.Iterations)
		if err != nil {
			return nil, err
		}
	}

	cipher, err := cripta.NewDESCipherWithCache(key, s.cache)
	if err != nil {
		return nil, err
	}

	return cripta.NewCipherContext(cipher, mode, padding, iv, s.cfg.Cipher.Parallel)
}

// decodeRequest reads a size-limited JSON body, writing the error response itself
func decodeRequest(w http.ResponseWriter, r *http.Request, req *cryptRequest) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) charset(req *cryptRequest) string {
	if req.Charset != "" {
		return req.Charset
	}
	return s.cfg.Cipher.Charset
}

// handleEncrypt encrypts hex data or charset-encoded text
func (s *Server) handleEncrypt(w http.ResponseWriter, r *http.Request) {
	var req cryptRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	ctx, err := s.buildContext(&req)
	if err != nil {
		s.logger.Warn("encrypt rejected", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var plaintext []byte
	if req.Data != "" {
		plaintext, err = hex.DecodeString(req.Data)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid data hex: %v", err), http.StatusBadRequest)
			return
		}
	} else {
		plaintext, err = textcodec.Encode(req.Text, s.charset(&req))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	ciphertext, err := ctx.Encrypt(plaintext)
	if err != nil {
		s.logger.Error("encrypt failed", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Debug("encrypted", "mode", ctx.GetMode(), "bytes", len(plaintext))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"data": hex.EncodeToString(ciphertext),
	})
}

// handleDecrypt decrypts hex data and returns both hex and decoded text
func (s *Server) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	var req cryptRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	ctx, err := s.buildContext(&req)
	if err != nil {
		s.logger.Warn("decrypt rejected", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ciphertext, err := hex.DecodeString(req.Data)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid data hex: %v", err), http.StatusBadRequest)
		return
	}

	plaintext, err := ctx.Decrypt(ciphertext)
	if err != nil {
		s.logger.Warn("decrypt failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	text, err := textcodec.Decode(plaintext, s.charset(&req))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"data": hex.EncodeToString(plaintext),
		"text": text,
	})
}
