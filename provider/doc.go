/*
Package provider defines the opaque capability ports the node handlers call
through: text generation, content publishing, analytics, and messaging.

The delegation core depends only on these interface shapes, never on transport
details. Every port ships with an explicit unconfigured implementation that
returns a NOT_CONFIGURED error, so handlers branch on results instead of
scattering nil checks.
*/
package provider
