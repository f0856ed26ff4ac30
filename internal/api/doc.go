// Package api defines the transport-level representation of catalog
// resources and a thin service layer the HTTP server and CLI share. Store
// rows are converted into JSON-friendly shapes here so wire formats stay
// stable when the storage schema moves.
package api
