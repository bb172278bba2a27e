package restyutil

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("judgetools.lib.restyutil")

// InstrumentOutput receives a raw dump of every HTTP exchange, keyed by a
// per-client message id. Useful when debugging a judge's markup.
type InstrumentOutput interface {
	Write(id string, contents string)
}

type instrumentCtx struct {
	output    InstrumentOutput
	idcounter *uint64
}

// InstrumentClient attaches slog/otel hooks to a resty client: an info
// event when a request starts, an info or error event when it completes
// (depending on the status line), and optionally a full message dump to
// `output` (may be nil).
func InstrumentClient(client *resty.Client, output InstrumentOutput) {
	var idcounter uint64
	i := instrumentCtx{output: output, idcounter: &idcounter}
	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

func (i instrumentCtx) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx, _ := tracer.Start(req.Context(), fmt.Sprintf("http %s", req.Method))

	slog.InfoContext(ctx, "http request", "method", req.Method, "url", req.URL)

	req.SetContext(ctx)
	return nil
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	status := fmt.Sprintf("%d %s", res.StatusCode(), http.StatusText(res.StatusCode()))
	if res.StatusCode() >= 400 {
		span.SetStatus(codes.Error, status)
		slog.ErrorContext(ctx, "http response", "method", res.Request.Method, "url", res.Request.URL, "status", status)
	} else {
		slog.InfoContext(ctx, "http response", "method", res.Request.Method, "url", res.Request.URL, "status", status)
	}

	if i.output != nil && slog.Default().Enabled(ctx, slog.LevelDebug) {
		id := strconv.FormatUint(atomic.AddUint64(i.idcounter, 1), 10)
		i.output.Write(id, formatHttpMessage(res))
	}

	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	ctx := req.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	// a disabled redirect is how login probes terminate, not a failure
	var ue *url.Error
	if errors.As(err, &ue) && errors.Is(ue.Err, resty.ErrAutoRedirectDisabled) {
		slog.InfoContext(ctx, "http response (redirect not followed)", "method", req.Method, "url", req.URL)
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")

	slog.ErrorContext(ctx, "http request failed", "method", req.Method, "url", req.URL, "err", err)
}
