// Package vibe generates the vibe report of a profile: a short character
// study, a one-paragraph hook, and per-photo lifestyle tags, produced by a
// vision-capable chat model from the profile's derived text and show-case
// photos.
//
// The package only talks to the model. Deciding when a report is stale is
// done by the caller through profile.ReportInputHash.
package vibe
