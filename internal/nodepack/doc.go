// Package nodepack loads node definitions declared in HCL files and binds
// them to behaviours already catalogued in a registry.
//
// A pack file holds any number of node blocks:
//
//	node "Double" {
//	  node_type   = "data"
//	  title       = "Double"
//	  category    = "Math"
//	  description = "Multiply by two"
//	  behavior    = "Multiply"
//
//	  input "A" {
//	    type     = float
//	    default  = 0
//	    required = true
//	  }
//	  input "B" {
//	    type    = float
//	    default = 2
//	  }
//	  output "Result" {
//	    type = float
//	  }
//	}
//
// The behavior attribute names a catalogue entry; every node registered from
// Go code catalogues its behaviour under its type tag. A node without one is
// generation-only. Socket ids default to the lower-cased name without spaces
// plus "_in" or "_out", so the block above produces a_in, b_in and
// result_out, matching the built-in Multiply node.
//
// Loading registers definitions on top of what the registry already holds,
// so a pack can override a built-in. The Watcher reloads packs whenever a
// file changes.
package nodepack
