// Copyright 2024 the Loam authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package plan

import (
	"github.com/opentracing/opentracing-go"

	"github.com/loamdb/loam/sql"
)

func tableTag(name string) opentracing.StartSpanOption {
	return opentracing.Tag{Key: "table", Value: name}
}

// UnaryNode is a node with one child.
type UnaryNode struct {
	Child sql.Node
}

// Schema implements the Node interface.
func (n *UnaryNode) Schema() sql.Schema {
	return n.Child.Schema()
}

// Resolved implements the Node interface.
func (n *UnaryNode) Resolved() bool {
	return n.Child.Resolved()
}

// Children implements the Node interface.
func (n *UnaryNode) Children() []sql.Node {
	return []sql.Node{n.Child}
}

// BinaryNode is a node with two children.
type BinaryNode struct {
	Left  sql.Node
	Right sql.Node
}

// Resolved implements the Node interface.
func (n *BinaryNode) Resolved() bool {
	return n.Left.Resolved() && n.Right.Resolved()
}

// Children implements the Node interface.
func (n *BinaryNode) Children() []sql.Node {
	return []sql.Node{n.Left, n.Right}
}

// TransformUp applies f to every node of the plan tree, bottom-up.
func TransformUp(node sql.Node, f func(sql.Node) (sql.Node, error)) (sql.Node, error) {
	children := node.Children()
	if len(children) > 0 {
		newChildren := make([]sql.Node, len(children))
		for i, child := range children {
			c, err := TransformUp(child, f)
			if err != nil {
				return nil, err
			}
			newChildren[i] = c
		}
		var err error
		node, err = node.WithChildren(newChildren...)
		if err != nil {
			return nil, err
		}
	}
	return f(node)
}
