// Package httputil provides the HTTP client used to fetch remote images.
//
// # Overview
//
// [Client] performs a single GET per call. There is no retry: an image that
// cannot be fetched on the first attempt is simply left off its slide, so a
// slow or broken host costs at most one timeout per image.
//
// Every response is checked before its body is read:
//
//   - non-2xx statuses fail with [errors.ErrCodeNetwork]
//   - bodies larger than the configured cap fail with [errors.ErrCodeNetwork]
//   - deadline and transport timeouts fail with [errors.ErrCodeTimeout]
//
// Requests and responses are reported to the registered
// [observability.HTTPHooks].
//
// # Configuration
//
// Default settings:
//
//   - Timeout: 10 seconds
//   - Maximum body size: 20 MiB
//   - User-Agent: "slidesmith"
//
// [errors.ErrCodeNetwork]: github.com/matzehuels/slidesmith/pkg/errors.ErrCodeNetwork
// [errors.ErrCodeTimeout]: github.com/matzehuels/slidesmith/pkg/errors.ErrCodeTimeout
// [observability.HTTPHooks]: github.com/matzehuels/slidesmith/pkg/observability.HTTPHooks
package httputil
