// Package api handles incoming HTTP requests and response formatting. It acts
// as the presentation surface in front of the generation gateway: an HTML
// control panel for operators and a small JSON API for other renderers.
// Handlers translate HTTP input into collector.Input values and never call the
// gateway when the question is empty.
package api
