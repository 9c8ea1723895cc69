// Package ui provides semantic text formatting for CLI output.
//
// Formatters render content by kind (code, paths, errors, key material)
// rather than by color. With colors available the content is colorized;
// with NO_COLOR set or a terminal that cannot show colors, text
// decorations (backticks, quotes) are used instead.
//
//	ui.Code.Sprint("capi verify")          // Commands and code
//	ui.Path.Sprint("data.enc")             // File paths and addresses
//	ui.Mark(true)                          // ✓ or ✗
//	ui.Warning.Sprint("!")                 // Warnings
//	ui.Info.Sprint("→")                    // Informational hints
//	ui.Highlight.Sprint("CAPI_API_KEY_3")  // User values
//	ui.Secret.Sprint(key)                  // Key material, never decorated
//	ui.Muted.Sprint("optional")            // De-emphasized text
//
// Colors are disabled when NO_COLOR is set (any value) or when
// fatih/color decides the terminal does not support them. Without colors,
// Code gets `backticks`, Highlight gets 'single quotes' and Muted gets
// (parentheses); the rest are left as is.
package ui
