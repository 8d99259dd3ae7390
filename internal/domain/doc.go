// Package domain holds the core entities of the service: words and texts
// awaiting enrichment, the closed language and proficiency-level sets they
// are classified against, and the users of the public API. Entities
// validate themselves; nothing here touches storage or transport.
package domain
