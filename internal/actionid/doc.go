/*
Package actionid provides the structured identity of an action: a base name
plus an unordered set of qualifier key/value pairs that distinguish variants
sharing that name.

The canonical text form is `name` or `name[k1=v1,k2=v2]` with qualifier keys
sorted, e.g. `compile[arch=x86_64,os=linux]`. Two IDs are equal iff their
names and all qualifiers match exactly; qualifier order never matters.
*/
package actionid
