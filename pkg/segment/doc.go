/*
Package segment implements the value model shared by the variable pool and templates.

A Segment is an immutable, typed wrapper around a workflow value. The set of kinds is closed
(string, number, object, array, file, group, none) and the interface is sealed, so every switch
over a Segment can be exhaustive.

# Key Entities

  - Segment: the sealed value interface (Kind, Value, Text, Log, Markdown).
  - Variable: a Segment bound to a name and an owning selector.
  - File: a file reference plus its derived attributes (FileAttribute).
  - Group: the ordered result of expanding a template.

Raw Go values are normalized with Build.
*/
package segment
