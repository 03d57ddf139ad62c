package common

// SessionCookieName is the default name of the cookie carrying the
// session token.
const SessionCookieName = "token"

// ServiceName identifies this service in logs, traces and health checks.
const ServiceName = "notekeeper"

// Version is stamped at build time with -ldflags "-X ...common.Version=...".
var Version = "dev"
