// Package gmail is a convenience layer over the Gmail REST API.
//
// A Client wraps the API's Users service for one authenticated account and
// exposes the operations a mail tool actually needs: searching, fetching
// decoded messages, sending MIME mail, label mutations and attachment
// downloads. Search queries are built from typed FilterOptions via
// BuildQuery rather than hand-assembled strings.
//
// Bulk fetches run through a bounded worker pool with client-side rate
// limiting so large mailboxes can be pulled without tripping API quotas.
package gmail
