// Package adminsdk is the client side of the admin authentication flow.
//
// A Client submits credentials to the authentication endpoint; a LoginForm
// wraps a Client with the interactive submission lifecycle — input
// validation, an in-flight guard against duplicate submissions, persistence
// of the issued session, and user feedback. Storage and Notifier are
// injected capabilities so frontends and tests can substitute their own.
package adminsdk
