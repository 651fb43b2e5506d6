package server

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/meikuraledutech/flow"
)

type resolveRequest struct {
	Content string      `json:"content"`
	Nodes   []flow.Node `json:"nodes"`
}

type evaluateRequest struct {
	Conditions []flow.Condition `json:"conditions"`
	RootLogic  flow.Logic       `json:"root_logic"`
	Nodes      []flow.Node      `json:"nodes"`
}

type branchesRequest struct {
	From  string      `json:"from"`
	Edges []flow.Edge `json:"edges"`
	Nodes []flow.Node `json:"nodes"`
}

var errInvalidLogic = errors.New("root_logic must be AND or OR")

// validateLogic rejects a malformed request at the boundary; the evaluator itself
// never fails on bad data.
func validateLogic(conditions []flow.Condition, logic flow.Logic) error {
	if len(conditions) == 0 && logic == "" {
		return nil
	}
	if logic != flow.LogicAnd && logic != flow.LogicOr {
		return errInvalidLogic
	}
	return nil
}

func validateEdges(edges []flow.Edge) error {
	for _, e := range edges {
		if e.When != nil {
			if err := validateLogic(e.When.Conditions, e.When.RootLogic); err != nil {
				return err
			}
		}
	}
	return flow.ValidateAcyclic(edges)
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// ── Stateless ─────────────────────────────────────────────────────────

func (s *Server) resolve(c fiber.Ctx) error {
	var req resolveRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return s.respondResolve(c, req.Content, req.Nodes)
}

func (s *Server) evaluate(c fiber.Ctx) error {
	var req evaluateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return s.respondEvaluate(c, req.Conditions, req.RootLogic, req.Nodes)
}

func (s *Server) branches(c fiber.Ctx) error {
	var req branchesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	return s.respondBranches(c, req.From, req.Edges, req.Nodes)
}

func (s *Server) respondResolve(c fiber.Ctx, content string, nodes []flow.Node) error {
	result := flow.ResolveVariables(content, nodes)
	s.metrics.observeResolution()
	return c.JSON(fiber.Map{"result": result})
}

func (s *Server) respondEvaluate(c fiber.Ctx, conditions []flow.Condition, logic flow.Logic, nodes []flow.Node) error {
	if err := validateLogic(conditions, logic); err != nil {
		return badRequest(c, err.Error())
	}
	result := flow.EvaluateConditionSet(conditions, logic, nodes)
	s.metrics.observeEvaluation(result)
	return c.JSON(fiber.Map{"result": result})
}

func (s *Server) respondBranches(c fiber.Ctx, from string, edges []flow.Edge, nodes []flow.Node) error {
	if from == "" {
		return badRequest(c, "from is required")
	}
	if err := validateEdges(edges); err != nil {
		if errors.Is(err, flow.ErrCycleDetected) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "cycle detected"})
		}
		return badRequest(c, err.Error())
	}
	return c.JSON(fiber.Map{"edges": flow.SelectEdges(edges, from, nodes)})
}

// ── Runs ──────────────────────────────────────────────────────────────

func (s *Server) createRun(c fiber.Ctx) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": uuid.NewString()})
}

func (s *Server) deleteRun(c fiber.Ctx) error {
	if err := s.store.DeleteRun(c.Context(), c.Params("id")); err != nil {
		return s.internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listOutputs(c fiber.Ctx) error {
	nodes, err := s.store.ListOutputs(c.Context(), c.Params("id"))
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(nodes)
}

func (s *Server) getOutput(c fiber.Ctx) error {
	n, err := s.store.GetOutput(c.Context(), c.Params("id"), c.Params("node"))
	if err != nil {
		return s.internalError(c, err)
	}
	if n == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "node output not found"})
	}
	return c.JSON(n)
}

func (s *Server) saveOutput(c fiber.Ctx) error {
	var node flow.Node
	if err := c.Bind().JSON(&node); err != nil {
		return badRequest(c, "invalid body")
	}
	node.ID = c.Params("node")
	if err := s.store.SaveOutput(c.Context(), c.Params("id"), &node); err != nil {
		return s.internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) deleteOutput(c fiber.Ctx) error {
	if err := s.store.DeleteOutput(c.Context(), c.Params("id"), c.Params("node")); err != nil {
		return s.internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// snapshot loads the node outputs of the run named in the path.
func (s *Server) snapshot(c fiber.Ctx) ([]flow.Node, error) {
	return s.store.ListOutputs(c.Context(), c.Params("id"))
}

func (s *Server) resolveRun(c fiber.Ctx) error {
	var req resolveRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	nodes, err := s.snapshot(c)
	if err != nil {
		return s.internalError(c, err)
	}
	return s.respondResolve(c, req.Content, nodes)
}

func (s *Server) evaluateRun(c fiber.Ctx) error {
	var req evaluateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	nodes, err := s.snapshot(c)
	if err != nil {
		return s.internalError(c, err)
	}
	return s.respondEvaluate(c, req.Conditions, req.RootLogic, nodes)
}

func (s *Server) branchesRun(c fiber.Ctx) error {
	var req branchesRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	nodes, err := s.snapshot(c)
	if err != nil {
		return s.internalError(c, err)
	}
	return s.respondBranches(c, req.From, req.Edges, nodes)
}
