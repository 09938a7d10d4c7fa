package handler

import (
	"notetasks/dto"
	"notetasks/model"
	"notetasks/usecase"
	"notetasks/utils"

	"github.com/gin-gonic/gin"
)

type NotesHandler struct {
	notesService *usecase.NotesService
}

func NewNotesHandler(notesService *usecase.NotesService) *NotesHandler {
	return &NotesHandler{notesService: notesService}
}

func (h *NotesHandler) ListNotes(c *gin.Context) {
	filter := model.NoteFilter{Category: model.Category(c.Query("category"))}

	notes, err := h.notesService.ListNotes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, notes)
}

func (h *NotesHandler) GetNote(c *gin.Context) {
	note, err := h.notesService.GetNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, note)
}

func (h *NotesHandler) SearchNotes(c *gin.Context) {
	filter := model.NoteFilter{Category: model.Category(c.Query("category"))}

	notes, err := h.notesService.SearchNotes(c.Request.Context(), c.Param("term"), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, notes)
}

// CreateNote ingests typed text. The subject is inferred from the content.
func (h *NotesHandler) CreateNote(c *gin.Context) {
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, dto.BindingErrorMessage(err))
		return
	}

	note, err := h.notesService.CreateNote(c.Request.Context(), req.Input())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, note)
}

func (h *NotesHandler) UpdateNote(c *gin.Context) {
	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, dto.BindingErrorMessage(err))
		return
	}

	note, err := h.notesService.UpdateNote(c.Request.Context(), c.Param("id"), req.Patch())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessMessage(c, "Note updated successfully", note)
}

func (h *NotesHandler) DeleteNote(c *gin.Context) {
	noteID := c.Param("id")

	removed, err := h.notesService.DeleteNote(c.Request.Context(), noteID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessMessage(c, "Note deleted successfully", dto.DeleteNoteResponse{
		ID:           noteID,
		TasksDeleted: removed,
	})
}
