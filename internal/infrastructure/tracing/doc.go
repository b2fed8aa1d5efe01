/*
Package tracing provides lightweight request and session tracing for the dev
harness.

Spans carry a trace id and a span id, collect tags and events, and are logged
through zap by a buffered background collector when submitted. The harness
opens one span per HTTP request and one per bridge session, with an event for
every frame exchanged with the browser page.

# Usage

	tracer := tracing.New("harness", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "session")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
	span.SetTag("flow", "bnpl")
	span.AddEvent("inbound", map[string]string{"action": "actionClose"})

# Propagation

Trace context travels in the X-Trace-ID and X-Span-ID headers. A request
that carries them continues the caller's trace.
*/
package tracing
