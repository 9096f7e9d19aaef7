/*
Package keybinds provides customizable keyboard binding management.

# Context Hierarchy

Bindings live in contexts. A lookup walks from the specific context to its
parent and finally to global:

	documents -> viewer -> global
	query_editor -> global
	text_input -> global

Every browsing view (menu, databases, collections, properties, documents,
query, graphs, graph) inherits the viewer context, which carries the shared
navigation keys. The query editor and the text prompts do not, so typed
characters reach the input.

# Configuration File Format

User overrides are read from ~/.arangotui/keybinds.json. Each section maps a
key to an action; an empty action removes the default binding:

	{
	  "viewer": {
	    "l": "select",
	    "h": "back"
	  },
	  "query_editor": {
	    "ctrl+r": ""
	  }
	}

# Multi-Key Sequences

A key bound to go_to_top_prepare (by default "g") starts a sequence; the
next key is matched as the pair, so "gg" jumps to the top.
*/
package keybinds
