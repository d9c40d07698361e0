// Package answer builds answer graphs: the query graph template replayed
// once per result row with every variable replaced by the concept the row
// binds to it.
//
// Vertices are comparable values whose identity is the concept's instance
// id (entities, relations) or its type and value (attributes). The same
// concept appearing in two rows therefore yields equal vertices, and a
// Visualiser can deduplicate on them. The builder itself never
// deduplicates.
//
// Visualise walks a finished graph in row order, calling a Visualiser for
// each row, each vertex and each edge, and finishes with a single Plot.
package answer
