// Package openrtb_ext holds the bidder names, the bidder params validator and the
// extension objects this module writes into OpenRTB payloads.
package openrtb_ext
