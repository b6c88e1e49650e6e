// Package explorer turns the normalized Chinook music-store tables into
// analysis-ready views and descriptive business metrics.
//
// Usage:
//
//	tables, err := loader.New("data").LoadTables()
//	mdl, err := model.New(tables)
//	sales, err := mdl.SalesLineItems()
//	cat, err := mdl.Catalog()
//	an, err := analytics.New(sales, cat)
//	months, err := an.RevenueByMonth()
//
// The pipeline is strictly staged: loader reads flat files into raw
// tables, model joins them into a sales fact table, a catalog and a
// customer dimension, analytics aggregates those views, and viz renders
// the aggregates as charts. Every stage recomputes from immutable
// inputs — nothing is persisted and nothing mutates in place.
package explorer
