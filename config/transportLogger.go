package config

import (
	"net/http"
	"time"

	"es-bug-demo/utils"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	"go.uber.org/zap"
)

// transportLogger sends elastictransport round trips to zap, so debug
// output lands in the same rotated log files as everything else.
type transportLogger struct {
	logger *zap.Logger
	bodies bool
}

// NewTransportLogger adapts logger to the Elasticsearch transport. With
// bodies set, request and response bodies are logged as well.
func NewTransportLogger(logger *zap.Logger, bodies bool) elastictransport.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &transportLogger{logger: logger, bodies: bodies}
}

func (l *transportLogger) LogRoundTrip(req *http.Request, res *http.Response, err error, start time.Time, dur time.Duration) error {
	fields := []zap.Field{
		zap.Time("start", start),
		zap.Duration("duration", dur),
	}
	if req != nil {
		fields = append(fields, zap.String("method", req.Method), zap.String("url", req.URL.Redacted()))
		if l.bodies && req.Body != nil && req.Body != http.NoBody {
			if body, readErr := utils.ReadBody(req.Body); readErr == nil {
				fields = append(fields, zap.String("request_body", body))
			}
		}
	}
	if res != nil {
		fields = append(fields, zap.Int("status", res.StatusCode))
		if l.bodies && res.Body != nil && res.Body != http.NoBody {
			if body, readErr := utils.ReadHTTPResponseBody(res); readErr == nil {
				fields = append(fields, zap.String("response_body", body))
			}
		}
	}

	if err != nil {
		l.logger.Warn("Elasticsearch round trip failed", append(fields, zap.Error(err))...)
		return nil
	}
	l.logger.Info("Elasticsearch round trip", fields...)
	return nil
}

func (l *transportLogger) RequestBodyEnabled() bool  { return l.bodies }
func (l *transportLogger) ResponseBodyEnabled() bool { return l.bodies }
