// Package sensor holds the response variants shared by every probe family
// and the Family descriptor that binds a family's command and response
// grammars together.
//
// Family packages (ph, ec, rtd) declare their closed command set as a
// wire.Table and their family-specific responses as types embedding Variant.
// Shared responses such as Reading or DeviceInfo are parsed by ParseCommon.
package sensor
