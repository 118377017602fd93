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

// Package loam is a small SQL engine. Its planner folds constant
// subexpressions, isolates column references in predicates and lowers them
// into constant range covers that storage scans by primary key.
package loam

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"

	"github.com/loamdb/loam/sql"
	"github.com/loamdb/loam/sql/analyzer"
	"github.com/loamdb/loam/sql/parse"
)

// Config of the engine.
type Config struct {
	// Tracer spans are created with. Defaults to a noop tracer.
	Tracer opentracing.Tracer
}

// Engine is the SQL engine: parse, analyze, execute.
type Engine struct {
	Catalog  *sql.Catalog
	Analyzer *analyzer.Analyzer
	config   *Config
}

// New creates an engine with the given catalog, analyzer and configuration.
func New(c *sql.Catalog, a *analyzer.Analyzer, cfg *Config) *Engine {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Engine{Catalog: c, Analyzer: a, config: cfg}
}

// NewDefault creates an engine with an empty catalog and the default
// analyzer rules.
func NewDefault() *Engine {
	c := sql.NewCatalog()
	return New(c, analyzer.NewDefault(c), nil)
}

// AddDatabase adds the given database to the engine catalog.
func (e *Engine) AddDatabase(db sql.Database) {
	e.Catalog.AddDatabase(db)
}

// Query plans and executes the given query, returning the result schema and
// a row iterator.
func (e *Engine) Query(ctx *sql.Context, query string) (sql.Schema, sql.RowIter, error) {
	if ctx == nil {
		var opts []sql.ContextOption
		if e.config.Tracer != nil {
			opts = append(opts, sql.WithTracer(e.config.Tracer))
		}
		ctx = sql.NewContext(context.Background(), opts...)
	}

	id := ctx.ID()
	if id == "" {
		id = uuid.NewV4().String()
	}
	log := logrus.WithFields(logrus.Fields{"query": query, "id": id})

	span, ctx := ctx.Span("query", opentracing.Tag{Key: "query", Value: query})

	start := time.Now()
	parsed, err := parse.Parse(ctx, query)
	if err != nil {
		span.Finish()
		return nil, nil, err
	}

	analyzed, err := e.Analyzer.Analyze(ctx, parsed)
	if err != nil {
		span.Finish()
		return nil, nil, err
	}

	iter, err := analyzed.RowIter(ctx)
	if err != nil {
		span.Finish()
		return nil, nil, err
	}
	log.WithField("t", time.Since(start)).Debugf("query planned")

	return analyzed.Schema(), sql.NewSpanIter(span, iter), nil
}
