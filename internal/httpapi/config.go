package httpapi

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
// Default remains 1 MiB.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// CORS configuration. Enabled and permissive by default; the request/response
// surface is meant to be called from any browser origin.
var (
	corsEnabled        = true
	corsAllowedOrigins = []string{"*"}
	corsAllowedMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsAllowedHeaders = []string{"*"}
)

// SetCORSOptions configures CORS behavior for the HTTP server. Empty slices
// keep the current values.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	if len(origins) > 0 {
		corsAllowedOrigins = append([]string(nil), origins...)
	}
	if len(methods) > 0 {
		corsAllowedMethods = append([]string(nil), methods...)
	}
	if len(headers) > 0 {
		corsAllowedHeaders = append([]string(nil), headers...)
	}
}
