// Copyright 2024 the Loam authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
)

// Context of the query execution. It carries the standard context, the query
// id, a tracer and a logger.
type Context struct {
	context.Context
	id         string
	tracer     opentracing.Tracer
	parentSpan opentracing.Span
	logger     *logrus.Entry
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithTracer sets the tracer spans are created with.
func WithTracer(t opentracing.Tracer) ContextOption {
	return func(ctx *Context) {
		ctx.tracer = t
	}
}

// WithLogger sets the logger of the context.
func WithLogger(l *logrus.Entry) ContextOption {
	return func(ctx *Context) {
		ctx.logger = l
	}
}

// WithID sets the query id of the context.
func WithID(id string) ContextOption {
	return func(ctx *Context) {
		ctx.id = id
	}
}

// NewContext creates a query context from a standard context.
func NewContext(ctx context.Context, opts ...ContextOption) *Context {
	c := &Context{
		Context: ctx,
		tracer:  opentracing.NoopTracer{},
		logger:  logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewEmptyContext creates a query context with default values, meant for
// tests and tools.
func NewEmptyContext() *Context {
	return NewContext(context.Background())
}

// ID returns the query id of the context.
func (c *Context) ID() string {
	return c.id
}

// Logger returns the logger of the context.
func (c *Context) Logger() *logrus.Entry {
	return c.logger
}

// Span creates a new tracing span as a child of the context's current span,
// if any, and returns a context whose current span is the new one.
func (c *Context) Span(opName string, opts ...opentracing.StartSpanOption) (opentracing.Span, *Context) {
	if c.parentSpan != nil {
		opts = append(opts, opentracing.ChildOf(c.parentSpan.Context()))
	}
	span := c.tracer.StartSpan(opName, opts...)

	ctx := *c
	ctx.parentSpan = span
	return span, &ctx
}
