package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"titan-siege/server/internal/gamemode"
	"titan-siege/server/internal/geom"
)

// Layout is the static object set of a level.
type Layout struct {
	Name    string            `json:"name"`
	Objects []gamemode.Object `json:"objects"`
}

// LoadLayout reads a JSON layout from disk.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	var layout Layout
	if err := json.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("decode layout %s: %w", path, err)
	}
	if layout.Name == "" {
		layout.Name = path
	}
	return layout, nil
}

// DefaultLayout is the built-in gate district used when no layout file is
// configured. It carries everything the rush variant needs.
func DefaultLayout() Layout {
	objects := []gamemode.Object{
		{Name: gamemode.ObjectSupply, Pose: pose(0, 0, -40, 0)},
		{Name: gamemode.ObjectLavaSupply, Pose: pose(0, 12, -40, 0)},
		{Name: gamemode.ObjectRock, Pose: pose(30, 0, 200, 0)},
		{Name: gamemode.ObjectTrostRespawn, Tag: gamemode.TagPlayerSpawn, Pose: pose(0, 0, -60, 0)},
		{Name: "playerRespawn-1", Tag: gamemode.TagPlayerSpawn, Pose: pose(-20, 0, -50, 0)},
		{Name: "playerRespawn-2", Tag: gamemode.TagPlayerSpawn, Pose: pose(20, 0, -50, 0)},
	}
	for i := 0; i < 4; i++ {
		objects = append(objects, gamemode.Object{
			Name:   "titanRespawn-" + strconv.Itoa(i+1),
			Tag:    gamemode.TagTitanSpawn,
			Parent: "titanRespawns",
			Pose:   pose(float64(i*60-90), 0, 500, 180),
		})
	}
	for i := 0; i < 3; i++ {
		objects = append(objects, gamemode.Object{
			Name:   "titanRespawnCT-" + strconv.Itoa(i+1),
			Tag:    gamemode.TagTitanSpawn,
			Parent: gamemode.RushSpawnGroup,
			Pose:   pose(float64(i*40-40), 0, 1200, 180),
		})
	}
	objects = append(objects,
		route(gamemode.RushRouteName, 0),
		route("routeWall", 150),
	)
	return Layout{Name: "gate-district", Objects: objects}
}

func pose(x, y, z, yaw float64) gamemode.Pose {
	return gamemode.Pose{Position: geom.Vec3{X: x, Y: y, Z: z}, Rotation: geom.Euler(0, yaw, 0)}
}

// route lays waypoints r1..r10 from the outer wall toward the north gate.
func route(name string, offset float64) gamemode.Object {
	object := gamemode.Object{Name: name, Tag: gamemode.TagRoute}
	for i := 1; i <= gamemode.RushWaypointCount; i++ {
		object.Children = append(object.Children, gamemode.Object{
			Name:   "r" + strconv.Itoa(i),
			Parent: name,
			Pose:   pose(offset, 0, 1100-float64(i)*110, 180),
		})
	}
	return object
}
