// Package decompose splits a series into trend, seasonal and residual
// components. Additive decompositions reconstruct the input exactly:
// trend + seasonal + residual equals the original values.
//
// Four methods are provided. STL iterates robust seasonal means with a
// weighted moving-average trend. Linear fits an ordinary least-squares
// line against time. SavitzkyGolay smooths with local polynomial least
// squares. SSA builds a lagged trajectory matrix, decomposes it by SVD
// and reconstructs caller-selected components by diagonal averaging.
package decompose
