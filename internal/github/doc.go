// Package github is a thin client for the GitHub REST API operations the
// service needs: tree listing, raw content fetch, issue creation, and
// issue/PR comment creation.
package github
