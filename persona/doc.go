// Package persona models operator skill profiles and scores how well a
// given tool fits one.
//
// A Persona is a tolerance band over composite entropy: tools below the
// band invite complacency, tools above it overload the operator, and tools
// inside it degrade gently with distance from the band midpoint. Match is a
// pure function over a persona and a tool signature; personas are built per
// evaluation request and never persisted here.
package persona
