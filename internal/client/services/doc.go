// Package services contains the application services of the Moodiary CLI.
// Every authenticated backend call goes through the session manager so an
// expired access token is refreshed transparently.
package services
