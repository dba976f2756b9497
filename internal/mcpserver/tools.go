package mcpserver

// AddNodesInput defines the input schema for the add_nodes tool.
type AddNodesInput struct {
	Nodes []NodeInput `json:"nodes" jsonschema:"the nodes to add to the graph"`
}

// NodeInput is one node's wire representation for add_nodes.
type NodeInput struct {
	ID       string         `json:"id,omitempty" jsonschema:"node id; generated if omitted"`
	Text     string         `json:"text" jsonschema:"the node's text content"`
	Metadata map[string]any `json:"metadata,omitempty" jsonschema:"arbitrary metadata attached to the node"`
	Links    []LinkInput    `json:"links,omitempty" jsonschema:"typed links connecting this node to tag vertices"`
}

// LinkInput is one link's wire representation.
type LinkInput struct {
	Kind      string `json:"kind" jsonschema:"the link's namespace, e.g. 'hyperlink'"`
	Tag       string `json:"tag" jsonschema:"the tag value within kind"`
	Direction string `json:"direction" jsonschema:"one of 'in', 'out', 'bidir'"`
}

// AddNodesOutput defines the output schema for the add_nodes tool.
type AddNodesOutput struct {
	IDs []string `json:"ids" jsonschema:"ids of the nodes added, in the same order as the request"`
}

// SimilaritySearchInput defines the input schema for the
// similarity_search tool.
type SimilaritySearchInput struct {
	Query string `json:"query" jsonschema:"text to embed and search by similarity"`
	K     int    `json:"k,omitempty" jsonschema:"maximum number of results, default 4"`
}

// TraversalSearchInput defines the input schema for the
// traversal_search tool.
type TraversalSearchInput struct {
	Query string `json:"query" jsonschema:"text to embed and search by similarity before traversing"`
	K     int    `json:"k,omitempty" jsonschema:"number of starting nodes fetched by similarity, default 4"`
	Depth int    `json:"depth,omitempty" jsonschema:"maximum number of edges to traverse, default 1"`
}

// MMRTraversalSearchInput defines the input schema for the
// mmr_traversal_search tool.
type MMRTraversalSearchInput struct {
	Query          string  `json:"query" jsonschema:"text to embed and search by similarity before traversing"`
	K              int     `json:"k,omitempty" jsonschema:"number of nodes to return, default 4"`
	Depth          int     `json:"depth,omitempty" jsonschema:"nodes are pulled in only while fewer than depth edges from the nearest initial node, default 2"`
	FetchK         int     `json:"fetch_k,omitempty" jsonschema:"number of candidates fetched by the initial similarity search, default 100"`
	AdjacentK      int     `json:"adjacent_k,omitempty" jsonschema:"number of adjacent nodes fetched per expanded tag, default 10"`
	LambdaMult     float64 `json:"lambda_mult,omitempty" jsonschema:"relevance/diversity tradeoff in [0,1], default 0.5"`
	ScoreThreshold float64 `json:"score_threshold,omitempty" jsonschema:"minimum MMR score a candidate must clear to be selected"`
}

// NodeOutput is one node's wire representation in a search result.
type NodeOutput struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Links    []LinkInput    `json:"links,omitempty"`
}

// NodesOutput defines the output schema shared by similarity_search,
// traversal_search, and mmr_traversal_search.
type NodesOutput struct {
	Nodes []NodeOutput `json:"nodes"`
}
