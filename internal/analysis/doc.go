// Package analysis implements the line-oriented static rule engine.
//
// The engine evaluates a fixed-priority rule set (debug statements,
// hardcoded secrets, TODO comments) against every line of a file and
// produces ordered findings with severity counts. Rule packs loaded from
// YAML can disable rules or override severities.
package analysis
