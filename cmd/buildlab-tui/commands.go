package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"buildlab/internal/catalog"
	"buildlab/internal/codec"
	"buildlab/internal/domain"
	"buildlab/internal/service"
)

const usage = `add computer|display|router [x y]   place a node
connect A B                          wire two nodes
move ID x y                          reposition a node
hw PC-N TIER                         install catalog tier 0-7 on a computer
os MON-N windows|linux [edition]     install an OS through a display
net RTR-N auto | net RTR-N ip mask gateway dns
unplug CABLE-N                       remove one cable
disconnect ID                        remove every cable on a node
rm ID                                delete a node
metrics PC-N                         show a computer's scores
agg                                  summarise the fleet
save FILE | load FILE                write or replay a scenario (.yaml/.json)
help                                 show this list`

var errUsage = errors.New("unknown command, type help")

// execute runs one console command against lab and returns the line to
// show on success
func execute(lab *service.Lab, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help", "?":
		return usage, nil

	case "add":
		if len(args) != 1 && len(args) != 3 {
			return "", errors.New("usage: add KIND [x y]")
		}
		kind, err := domain.ParseNodeKind(args[0])
		if err != nil {
			return "", err
		}
		pos, err := parsePosition(args[1:])
		if err != nil {
			return "", err
		}
		n, err := lab.AddNode(kind, pos)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("added %s", n.ID), nil

	case "connect":
		if len(args) != 2 {
			return "", errors.New("usage: connect A B")
		}
		c, err := lab.Connect(args[0], args[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s: %s %s-%s", c.ID, c.Kind, c.FromID, c.ToID), nil

	case "move":
		if len(args) != 3 {
			return "", errors.New("usage: move ID x y")
		}
		pos, err := parsePosition(args[1:])
		if err != nil {
			return "", err
		}
		return "moved " + args[0], lab.MoveNode(args[0], pos)

	case "hw":
		if len(args) != 2 {
			return "", errors.New("usage: hw PC-N TIER")
		}
		tier, err := strconv.Atoi(args[1])
		if err != nil || tier < 0 {
			return "", fmt.Errorf("tier must be a non-negative number, got %q", args[1])
		}
		n, err := lab.ApplyHardware(args[0], tierHardware(tier))
		if err != nil {
			return "", err
		}
		return describeScore(lab, n.ID), nil

	case "os":
		if len(args) < 2 {
			return "", errors.New("usage: os MON-N windows|linux [edition]")
		}
		n, err := lab.ApplyOS(args[0], domain.OSConfig{
			Kind:    domain.OSKind(args[1]),
			Edition: strings.Join(args[2:], " "),
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s now shows %s", n.ID, n.LinkedComputer), nil

	case "net":
		return network(lab, args)

	case "unplug":
		if len(args) != 1 {
			return "", errors.New("usage: unplug CABLE-N")
		}
		c, err := lab.RemoveCable(args[0])
		if err != nil {
			return "", err
		}
		return "removed " + c.ID, nil

	case "disconnect":
		if len(args) != 1 {
			return "", errors.New("usage: disconnect ID")
		}
		removed, err := lab.DisconnectAll(args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("removed %d cables", len(removed)), nil

	case "rm":
		if len(args) != 1 {
			return "", errors.New("usage: rm ID")
		}
		return "deleted " + args[0], lab.DeleteNode(args[0])

	case "metrics":
		if len(args) != 1 {
			return "", errors.New("usage: metrics PC-N")
		}
		if _, err := lab.Metrics(args[0]); err != nil {
			return "", err
		}
		return describeScore(lab, args[0]), nil

	case "agg":
		return lab.Aggregate().Summary(), nil

	case "save":
		if len(args) != 1 {
			return "", errors.New("usage: save FILE")
		}
		return save(lab, args[0])

	case "load":
		if len(args) != 1 {
			return "", errors.New("usage: load FILE")
		}
		sc, err := codec.ParseFile(args[0])
		if err != nil {
			return "", err
		}
		report := service.ReplayScenario(lab, sc)
		if failed := report.Failed(); len(failed) > 0 {
			return "", fmt.Errorf("%d of %d entries failed, first: %s", len(failed), len(report.Outcomes), failed[0].Error())
		}
		return fmt.Sprintf("replayed %d entries from %s", len(report.Outcomes), args[0]), nil
	}

	return "", errUsage
}

func network(lab *service.Lab, args []string) (string, error) {
	switch {
	case len(args) == 2 && strings.EqualFold(args[1], "auto"):
		_, cfg, err := lab.ApplyAutoNetwork(args[0])
		if err != nil {
			return "", err
		}
		return "assigned " + cfg.IP, nil
	case len(args) == 5:
		cfg := domain.NetworkConfig{IP: args[1], SubnetMask: args[2], Gateway: args[3], DNS: args[4]}
		if _, err := lab.ApplyNetwork(args[0], cfg); err != nil {
			return "", err
		}
		return "configured " + cfg.IP, nil
	}
	return "", errors.New("usage: net RTR-N auto | net RTR-N ip mask gateway dns")
}

func save(lab *service.Lab, path string) (string, error) {
	c, err := codec.ForFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := c.Export(lab.Scenario(name), f); err != nil {
		return "", err
	}
	return "saved " + path, nil
}

func parsePosition(args []string) (domain.Position, error) {
	if len(args) == 0 {
		return domain.NewPosition(0, 0), nil
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return domain.Position{}, fmt.Errorf("bad x %q", args[0])
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return domain.Position{}, fmt.Errorf("bad y %q", args[1])
	}
	return domain.NewPosition(x, y), nil
}

// tierHardware picks the tier-th entry of every catalog table, clamped to
// the last entry
func tierHardware(tier int) domain.HardwareSpec {
	pick := func(n int) int { return min(tier, n-1) }
	cpus, rams, storages, gpus, psus := catalog.CPUs(), catalog.RAMs(), catalog.Storages(), catalog.GPUs(), catalog.PSUs()
	return domain.HardwareSpec{
		CPU:     cpus[pick(len(cpus))].Label(),
		RAM:     rams[pick(len(rams))].Label(),
		Storage: storages[pick(len(storages))].Label(),
		GPU:     gpus[pick(len(gpus))].Label(),
		PSU:     psus[pick(len(psus))].Label(),
	}
}

func describeScore(lab *service.Lab, id string) string {
	m, _ := lab.Metrics(id)
	if m == nil {
		return id + " has no hardware"
	}
	line := fmt.Sprintf("%s overall %d (cpu %d, ram %d, storage %d, gpu %d, net %d), boots in %s ms",
		id, m.Overall, m.CPUScore, m.RAMScore, m.StorageScore, m.GPUScore, m.NetworkScore, humanize.Comma(int64(m.VMBootTime)))
	if b, _ := lab.PowerBudget(id); b != nil && !b.Sufficient {
		line += fmt.Sprintf(", PSU short by %dW", -b.Headroom)
	}
	return line
}
