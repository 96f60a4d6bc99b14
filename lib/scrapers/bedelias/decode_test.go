package bedelias

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const treeFragment = `
<div id="previas_tree"><table><tbody><tr>
  <td class="ui-treenode ui-treenode-parent" data-rowkey="root" data-nodetype="y">
    <div class="ui-treenode-content"><span class="ui-treenode-label">Previas</span></div>
  </td>
  <td class="ui-treenode-children-container">
    <div class="ui-treenode-children">
      <table><tbody>
        <tr>
          <td class="ui-treenode ui-treenode-leaf" data-rowkey="root_0">
            <span class="ui-treenode-label">1 aprobación entre:<br/>Curso de la U.C.B: 1030 - CALCULO 1</span>
          </td>
        </tr>
        <tr>
          <td class="ui-treenode ui-treenode-parent" data-rowkey="root_1" data-nodetype="o">
            <span class="ui-treenode-label">Alguna de:</span>
          </td>
          <td class="ui-treenode-children-container">
            <div class="ui-treenode-children"><table><tbody><tr>
              <td class="ui-treenode ui-treenode-leaf" data-rowkey="root_1_0">
                <span class="ui-treenode-label">U.C.B aprobada: 1440 - FISICA 1</span>
              </td>
            </tr></tbody></table></div>
          </td>
        </tr>
      </tbody></table>
    </div>
  </td>
</tr></tbody></table></div>`

func TestDecodeTree(t *testing.T) {
	raw, err := DecodeTree(strings.NewReader(treeFragment))
	require.NoError(t, err)

	require.Equal(t, "y", raw.KindHint)
	require.False(t, raw.Leaf)
	require.Len(t, raw.Children, 2)

	first := raw.Children[0]
	require.True(t, first.Leaf)
	require.Equal(t, "1 aprobación entre:\nCurso de la U.C.B: 1030 - CALCULO 1", first.Label)

	second := raw.Children[1]
	require.Equal(t, "o", second.KindHint)
	require.Len(t, second.Children, 1)
	require.True(t, second.Children[0].Leaf)
}

func TestDecodeTreeMissingRoot(t *testing.T) {
	_, err := DecodeTree(strings.NewReader("<div>nada</div>"))
	require.Error(t, err)
}

func TestDecodeNodeJSON(t *testing.T) {
	data := []byte(`{
		"type": "ANY",
		"label": "o",
		"required_count": 2,
		"children": [
			{"type": "LEAF", "label": "U.C.B aprobada: 1030 - CALCULO 1"},
			{"type": "LEAF", "raw": "texto sin label"}
		]
	}`)

	raw, err := DecodeNodeJSON(data)
	require.NoError(t, err)
	require.Equal(t, "o", raw.KindHint)
	require.Equal(t, 2, raw.RequiredCount)
	require.Len(t, raw.Children, 2)
	require.True(t, raw.Children[0].Leaf)
	require.Equal(t, "texto sin label", raw.Children[1].Label)
}

func TestDecodeNodeJSONStructuredLeaf(t *testing.T) {
	// A dump leaf whose label was cleaned but whose items survived
	// must keep the items instead of re-deriving them from the label.
	data := []byte(`{
		"type": "LEAF",
		"label": "2 aprobaciones entre",
		"rule": "min_approvals",
		"required_count": 2,
		"items": [
			{"kind": "curso", "code": "1020", "name": "GAL 1"},
			{"kind": "curso", "code": "1030", "name": "CALCULO 1"}
		]
	}`)

	raw, err := DecodeNodeJSON(data)
	require.NoError(t, err)
	require.True(t, raw.Leaf)
	require.Equal(t, RuleMinApprovals, raw.Rule)

	node := Normalize(raw)
	require.NotNil(t, node)
	require.Equal(t, RuleMinApprovals, node.Rule)
	require.Equal(t, 2, node.RequiredCount)
	require.Len(t, node.Items, 2)
	require.Equal(t, "1020", node.Items[0].Code)
	require.Equal(t, "1030", node.Items[1].Code)
}

func TestDecodeNodeJSONStructuredCredits(t *testing.T) {
	data := []byte(`{
		"type": "LEAF",
		"label": "80 créditos",
		"rule": "credits_in_plan",
		"credits": 80,
		"plan": "1997 INGENIERIA ELECTRICA"
	}`)

	raw, err := DecodeNodeJSON(data)
	require.NoError(t, err)

	node := Normalize(raw)
	require.NotNil(t, node)
	require.Equal(t, RuleCreditsInPlan, node.Rule)
	require.Equal(t, 80, node.Credits)
	require.Equal(t, "1997 INGENIERIA ELECTRICA", node.Plan)
}
