package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDocument   = "document"
	KeyTarget     = "target"
	KeyPassID     = "pass_id"
	KeyOutcome    = "outcome"
	KeyVault      = "vault"
	KeyDurationMS = "duration_ms"
	KeyCacheHit   = "cache_hit"
	KeySubject    = "subject"
	KeyError      = "error"

	// HTTP request fields.
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Document(path string) slog.Attr  { return slog.String(KeyDocument, path) }
func Target(path string) slog.Attr    { return slog.String(KeyTarget, path) }
func PassID(id string) slog.Attr      { return slog.String(KeyPassID, id) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Vault(root string) slog.Attr     { return slog.String(KeyVault, root) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func CacheHit(hit bool) slog.Attr     { return slog.Bool(KeyCacheHit, hit) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
