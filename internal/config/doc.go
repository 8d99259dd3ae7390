// Package config loads and validates application settings from
// environment variables and an optional config file. Settings are grouped
// per subsystem (server, database, auth, NLP client, LLM, tasks) so each
// component receives only the section it needs.
package config
