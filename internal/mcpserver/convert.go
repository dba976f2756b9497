package mcpserver

import "github.com/amancerp/graphweave/pkg/graphstore"

func graphstoreTraversalOptions(input TraversalSearchInput) graphstore.TraversalOptions {
	return graphstore.TraversalOptions{
		K:     input.K,
		Depth: input.Depth,
	}
}

func graphstoreMMROptions(input MMRTraversalSearchInput) graphstore.MMRTraversalOptions {
	return graphstore.MMRTraversalOptions{
		K:              input.K,
		Depth:          input.Depth,
		FetchK:         input.FetchK,
		AdjacentK:      input.AdjacentK,
		LambdaMult:     input.LambdaMult,
		ScoreThreshold: input.ScoreThreshold,
	}
}
