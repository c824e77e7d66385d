// Package guid implements the compact internal identifier scheme used by
// the DWA tree APIs.
//
// A GUID addresses one resource (project, folder, module, or object) in
// one database, optionally pinned to a historical baseline:
//
//	AB:48beda447cfb0c27:21:2100003c20:28ffffffff:{null,0}
//	   |                |  |          |          |
//	   database ID      |  parent key |          baseline key (optional)
//	                    type code     object key
//
// The semantic resource type is derived, not stored: type code 21 is a
// module, 23 an object, and 1f either a folder or a project depending on
// whether the container key clears the project threshold. All parse and
// format operations are lossless round-trips over canonical (lowercase)
// text.
//
// GUID and BaselineKey are immutable comparable values, safe for use as
// map keys; the identity map in package dwa relies on this.
package guid
