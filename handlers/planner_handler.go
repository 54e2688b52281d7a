// handlers/planner_handler.go
//
// Procurement planner. Items live embedded in their project document, so
// every item mutation loads, edits and rewrites the whole project.
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"assetdesk/apperr"
	"assetdesk/models"
	"assetdesk/store"
	"assetdesk/utils"
)

func getProject(ctx context.Context, env store.Environment, id string) (models.Project, error) {
	var project models.Project
	doc, err := dataStore.Get(ctx, env, models.ColProjects, id)
	if err != nil {
		return project, err
	}
	return project, store.Decode(doc, &project)
}

func saveProject(ctx context.Context, env store.Environment, project models.Project) error {
	project.UpdatedAt = time.Now().UTC()
	doc, err := store.Encode(project)
	if err != nil {
		return err
	}
	return dataStore.Set(ctx, env, models.ColProjects, project.ID, doc)
}

func ListProjects(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	docs, err := dataStore.Query(ctx, requestEnv(r), models.ColProjects, store.Doc{},
		&store.QueryOptions{SortField: "createdAt", SortDesc: true})
	if err != nil {
		log.Printf("list projects failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to fetch projects")
		return
	}

	projects := []models.Project{}
	for _, doc := range docs {
		var p models.Project
		if err := store.Decode(doc, &p); err != nil {
			continue
		}
		projects = append(projects, p)
	}
	utils.RespondWithJSON(w, http.StatusOK, projects)
}

func GetProject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	project, err := getProject(ctx, requestEnv(r), mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "project not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, project)
}

func CreateProject(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to manage projects")
		return
	}

	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if project.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "project name is required")
		return
	}
	if project.Status == "" {
		project.Status = "Planning"
	}
	if project.Items == nil {
		project.Items = []models.ProjectItem{}
	}
	project.ID = uuid.New().String()
	project.CreatedBy = actor.DisplayNameOrEmail()
	project.CreatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := saveProject(ctx, requestEnv(r), project); err != nil {
		log.Printf("create project failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create project")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, project)
}

// UpdateProject replaces the project's own fields; the items array is only
// touched through the item endpoints.
func UpdateProject(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to manage projects")
		return
	}

	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Status      string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	env := requestEnv(r)
	project, err := getProject(ctx, env, mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "project not found")
		return
	}
	if payload.Name != "" {
		project.Name = payload.Name
	}
	if payload.Description != "" {
		project.Description = payload.Description
	}
	if payload.Status != "" {
		project.Status = payload.Status
	}

	if err := saveProject(ctx, env, project); err != nil {
		log.Printf("update project failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update project")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, project)
}

func DeleteProject(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to manage projects")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := dataStore.Delete(ctx, requestEnv(r), models.ColProjects, mux.Vars(r)["id"]); err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "failed to delete project")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
}

func AddProjectItem(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to manage projects")
		return
	}

	var item models.ProjectItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if item.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "item name is required")
		return
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if item.Status == "" {
		item.Status = models.ItemPlanned
	}
	item.ID = uuid.New().String()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	env := requestEnv(r)
	project, err := getProject(ctx, env, mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "project not found")
		return
	}
	project.Items = append(project.Items, item)

	if err := saveProject(ctx, env, project); err != nil {
		log.Printf("add project item failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to add item")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, project)
}

func UpdateProjectItem(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to manage projects")
		return
	}

	var item models.ProjectItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	env := requestEnv(r)
	vars := mux.Vars(r)
	project, err := getProject(ctx, env, vars["id"])
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "project not found")
		return
	}

	found := false
	for i := range project.Items {
		if project.Items[i].ID == vars["itemId"] {
			item.ID = vars["itemId"]
			project.Items[i] = item
			found = true
			break
		}
	}
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := saveProject(ctx, env, project); err != nil {
		log.Printf("update project item failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, project)
}

func RemoveProjectItem(w http.ResponseWriter, r *http.Request) {
	actor := requestActor(r)
	if !canEditInventory(actor) {
		utils.RespondWithError(w, http.StatusForbidden, "insufficient permissions to manage projects")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	env := requestEnv(r)
	vars := mux.Vars(r)
	project, err := getProject(ctx, env, vars["id"])
	if err != nil {
		utils.RespondWithError(w, apperr.HTTPStatus(err), "project not found")
		return
	}

	kept := project.Items[:0]
	found := false
	for _, it := range project.Items {
		if it.ID == vars["itemId"] {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "item not found")
		return
	}
	project.Items = kept

	if err := saveProject(ctx, env, project); err != nil {
		log.Printf("remove project item failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to remove item")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, project)
}
