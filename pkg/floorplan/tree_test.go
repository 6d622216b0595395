package floorplan

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChicagoDave/floorplanner/pkg/geo"
)

// twoRoomTree builds a root split into two rooms beside a corridor.
func twoRoomTree() *Node {
	root := NewNode("0", geo.NewRect(geo.Pt(0, 0), 20, 10), false)
	left := NewNode("0.0", geo.NewRect(geo.Pt(0, 0), 9, 10), true)
	right := NewNode("0.1", geo.NewRect(geo.Pt(11, 0), 9, 10), true)
	right.State = Room{Name: "study", Area: Range{Min: 50, Max: 100}}
	root.State = Parent{Children: []*Node{left, right}, ViaHallway: true}
	return root
}

func TestNewNodeIsUntouchedLeaf(t *testing.T) {
	n := NewNode("0", geo.NewRect(geo.Pt(0, 0), 4, 4), false)
	assert.True(t, n.IsLeaf())
	assert.True(t, n.IsUntouched())
	assert.Equal(t, "untouched", n.Kind())
	assert.Nil(t, n.Children())

	n.State = nil
	assert.True(t, n.IsUntouched(), "nil state counts as untouched")
}

func TestWalkPreOrder(t *testing.T) {
	root := twoRoomTree()

	var ids []string
	root.Walk(func(n *Node) bool {
		ids = append(ids, n.ID)
		return true
	})
	assert.Equal(t, []string{"0", "0.0", "0.1"}, ids)

	ids = nil
	root.Walk(func(n *Node) bool {
		ids = append(ids, n.ID)
		return false
	})
	assert.Equal(t, []string{"0"}, ids, "returning false prunes descendants")
}

func TestLeafQueries(t *testing.T) {
	root := twoRoomTree()

	assert.False(t, root.IsLeaf())
	assert.Len(t, root.Leaves(), 2)
	assert.Len(t, root.LeafNodes(), 2)
	assert.Len(t, root.AllNodes(), 3)

	untouched := root.UntouchedLeaves()
	require.Len(t, untouched, 1)
	assert.Equal(t, "0.0", untouched[0].ID)

	rooms := root.Rooms()
	require.Len(t, rooms, 1)
	assert.Equal(t, "room", rooms[0].Kind())

	assert.Same(t, rooms[0], root.Find("0.1"))
	assert.Nil(t, root.Find("0.7"))
}

func TestCorridors(t *testing.T) {
	root := twoRoomTree()
	gaps := root.Corridors()
	require.Len(t, gaps, 1)
	assert.Equal(t, geo.Rect{Min: geo.Pt(9, 0), Max: geo.Pt(11, 10)}, gaps[0])

	par := root.State.(Parent)
	par.ViaHallway = false
	root.State = par
	assert.Empty(t, root.Corridors())

	assert.Empty(t, par.Children[0].Corridors(), "leaves have no corridors")
}

func TestDoorPosition(t *testing.T) {
	n := NewNode("0", geo.NewRect(geo.Pt(0, 0), 20, 10), false)
	assert.Equal(t, geo.Pt(10, 0), n.DoorPosition(North, 0), "empty wall falls back to the midpoint")

	n.Doors[North] = []Door{{Kind: DoorExterior}, {Kind: DoorHallway}}
	assert.Equal(t, geo.Pt(5, 0), n.DoorPosition(North, 0))
	assert.Equal(t, geo.Pt(15, 0), n.DoorPosition(North, 1))

	n.Doors[East] = []Door{{Kind: DoorInterior}}
	assert.Equal(t, geo.Pt(20, 5), n.DoorPosition(East, 0))
	assert.Equal(t, 3, n.DoorCount())
}

func TestDirection(t *testing.T) {
	tests := []struct {
		d        Direction
		name     string
		opposite Direction
		outward  geo.Point2D
	}{
		{North, "north", South, geo.Pt(0, -1)},
		{East, "east", West, geo.Pt(1, 0)},
		{South, "south", North, geo.Pt(0, 1)},
		{West, "west", East, geo.Pt(-1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.d.String())
			assert.Equal(t, tt.opposite, tt.d.Opposite())
			assert.Equal(t, tt.outward, tt.d.Outward())
		})
	}
}

func TestNodeMarshalJSON(t *testing.T) {
	root := twoRoomTree()
	root.State.(Parent).Children[0].Doors[East] = []Door{{Kind: DoorHallway}}

	data, err := json.Marshal(root)
	require.NoError(t, err)

	var out struct {
		ID         string `json:"id"`
		State      string `json:"state"`
		ViaHallway bool   `json:"via_hallway"`
		Children   []struct {
			ID    string            `json:"id"`
			State string            `json:"state"`
			Room  *Room             `json:"room"`
			Doors map[string][]Door `json:"doors"`
		} `json:"children"`
	}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, "parent", out.State)
	assert.True(t, out.ViaHallway)
	require.Len(t, out.Children, 2)
	assert.Equal(t, "untouched", out.Children[0].State)
	assert.Equal(t, []Door{{Kind: DoorHallway}}, out.Children[0].Doors["east"])
	require.NotNil(t, out.Children[1].Room)
	assert.Equal(t, "study", out.Children[1].Room.Name)
}
