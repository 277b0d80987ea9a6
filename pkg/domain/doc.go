/*
Package domain contains the graph model of the lienzo engine.

It defines the two document shapes the engine moves between: the Canvas,
a node/edge graph authored in a visual editor, and the Recorrido, the linear
step/transition form a runtime executes. The package is pure and performs no
I/O.

# Key Entities

  - Node: a canvas vertex with a closed Kind, a property bag and pedagogical meta.
  - Edge: a directed, optionally conditional relation between two nodes.
  - Canvas: the graph document with its entry pointer.
  - Recorrido: the compiled flow with an insertion-ordered step map.
  - IDSet / NextID: the deterministic id allocator used by every mutation.
*/
package domain
